// Package checksum holds the digest algorithms a calculator can run,
// keyed by canonical name.
package checksum

import (
	"slices"
	"strings"

	"github.com/iamNilotpal/kff/internal/core/domain"
	"github.com/iamNilotpal/kff/internal/core/ports"
	kfferrors "github.com/iamNilotpal/kff/pkg/errors"
)

const (
	// MD5 provides MD5 digests (128-bit)
	MD5 domain.ChecksumAlgorithm = "MD5"

	// SHA1 provides SHA-1 digests (160-bit)
	SHA1 domain.ChecksumAlgorithm = "SHA-1"

	// SHA-2 family.
	SHA224     domain.ChecksumAlgorithm = "SHA-224"
	SHA256     domain.ChecksumAlgorithm = "SHA-256"
	SHA384     domain.ChecksumAlgorithm = "SHA-384"
	SHA512     domain.ChecksumAlgorithm = "SHA-512"
	SHA512_224 domain.ChecksumAlgorithm = "SHA-512/224"
	SHA512_256 domain.ChecksumAlgorithm = "SHA-512/256"

	// SHA-3 family.
	SHA3_224 domain.ChecksumAlgorithm = "SHA3-224"
	SHA3_256 domain.ChecksumAlgorithm = "SHA3-256"
	SHA3_384 domain.ChecksumAlgorithm = "SHA3-384"
	SHA3_512 domain.ChecksumAlgorithm = "SHA3-512"

	// BLAKE2b256 and BLAKE2b512 provide unkeyed BLAKE2b digests.
	BLAKE2b256 domain.ChecksumAlgorithm = "BLAKE2b-256"
	BLAKE2b512 domain.ChecksumAlgorithm = "BLAKE2b-512"

	// BLAKE3 provides 256-bit BLAKE3 digests.
	BLAKE3 domain.ChecksumAlgorithm = "BLAKE3"

	// CRC64ISO uses the ISO polynomial for CRC64 checksums
	CRC64ISO domain.ChecksumAlgorithm = "CRC64-ISO"

	// CRC64ECMA uses the ECMA polynomial for CRC64 checksums
	CRC64ECMA domain.ChecksumAlgorithm = "CRC64-ECMA"

	// CRC32 uses the IEEE polynomial. Calculators report it as a number
	// rather than as digest bytes.
	CRC32 domain.ChecksumAlgorithm = "CRC32"

	// SSDEEP is the context triggered piecewise fuzzy hash. Calculators
	// report it as a signature string.
	SSDEEP domain.ChecksumAlgorithm = "SSDEEP"
)

// digesters maps every algorithm reported as digest bytes to its adapter.
var digesters = map[domain.ChecksumAlgorithm]ports.Digester{
	MD5:        NewMD5(),
	SHA1:       NewSHA1(),
	SHA224:     NewSHA224(),
	SHA256:     NewSHA256(),
	SHA384:     NewSHA384(),
	SHA512:     NewSHA512(),
	SHA512_224: NewSHA512_224(),
	SHA512_256: NewSHA512_256(),
	SHA3_224:   NewSHA3(SHA3_224),
	SHA3_256:   NewSHA3(SHA3_256),
	SHA3_384:   NewSHA3(SHA3_384),
	SHA3_512:   NewSHA3(SHA3_512),
	BLAKE2b256: NewBLAKE2b(BLAKE2b256),
	BLAKE2b512: NewBLAKE2b(BLAKE2b512),
	BLAKE3:     NewBLAKE3(),
	CRC64ISO:   NewCRC64ISO(),
	CRC64ECMA:  NewCRC64ECMA(),
}

// aliases accepts the spellings other tools use for the same algorithms.
var aliases = map[string]domain.ChecksumAlgorithm{
	"SHA":        SHA1,
	"SHA1":       SHA1,
	"SHA224":     SHA224,
	"SHA256":     SHA256,
	"SHA384":     SHA384,
	"SHA512":     SHA512,
	"SHA512224":  SHA512_224,
	"SHA512256":  SHA512_256,
	"SHA3224":    SHA3_224,
	"SHA3256":    SHA3_256,
	"SHA3384":    SHA3_384,
	"SHA3512":    SHA3_512,
	"BLAKE2B256": BLAKE2b256,
	"BLAKE2B512": BLAKE2b512,
	"CRC32IEEE":  CRC32,
	"CRC64ISO":   CRC64ISO,
	"CRC64ECMA":  CRC64ECMA,
	"FUZZY":      SSDEEP,
}

// lookup indexes canonical names and aliases by their folded spelling.
var lookup = buildLookup()

func fold(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	return strings.NewReplacer("-", "", "_", "", "/", "", " ", "").Replace(name)
}

func buildLookup() map[string]domain.ChecksumAlgorithm {
	index := make(map[string]domain.ChecksumAlgorithm, len(digesters)+len(aliases)+2)
	for name := range digesters {
		index[fold(string(name))] = name
	}
	index[fold(string(CRC32))] = CRC32
	index[fold(string(SSDEEP))] = SSDEEP
	for alias, name := range aliases {
		index[fold(alias)] = name
	}
	return index
}

// Canonical resolves a user supplied algorithm name. Matching ignores case
// and the separators '-', '_' and '/', so "sha256", "SHA-256" and "sha_256"
// all resolve to SHA-256.
func Canonical(name string) (domain.ChecksumAlgorithm, error) {
	if alg, ok := lookup[fold(name)]; ok {
		return alg, nil
	}
	return "", kfferrors.Newf(
		kfferrors.ErrorUnsupportedAlgorithm, "resolve algorithm", "unsupported checksum algorithm: %q", name,
	)
}

// Kind reports how calculators expose the algorithm's output.
func Kind(alg domain.ChecksumAlgorithm) domain.AlgorithmKind {
	switch alg {
	case CRC32:
		return domain.KindChecksum
	case SSDEEP:
		return domain.KindFuzzy
	default:
		return domain.KindCryptographic
	}
}

// Lookup returns the adapter for a canonical algorithm reported as digest
// bytes. CRC32 and SSDEEP have no entry here.
func Lookup(alg domain.ChecksumAlgorithm) (ports.Digester, error) {
	if d, ok := digesters[alg]; ok {
		return d, nil
	}
	return nil, kfferrors.Newf(
		kfferrors.ErrorUnsupportedAlgorithm, "lookup algorithm", "unsupported checksum algorithm: %q", alg,
	)
}

// Supported lists every canonical algorithm name, sorted.
func Supported() []domain.ChecksumAlgorithm {
	names := make([]domain.ChecksumAlgorithm, 0, len(digesters)+2)
	for name := range digesters {
		names = append(names, name)
	}
	names = append(names, CRC32, SSDEEP)
	slices.Sort(names)
	return names
}

// Normalize resolves names to canonical algorithms, keeping the first
// occurrence of every algorithm in its original position.
func Normalize(names []string) ([]domain.ChecksumAlgorithm, error) {
	out := make([]domain.ChecksumAlgorithm, 0, len(names))
	seen := make(map[domain.ChecksumAlgorithm]struct{}, len(names))

	for _, name := range names {
		alg, err := Canonical(name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[alg]; dup {
			continue
		}
		seen[alg] = struct{}{}
		out = append(out, alg)
	}

	return out, nil
}

// Returns recommended checksum settings: SHA-1 plus the CRC32 checksum.
func DefaultOptions() *domain.ChecksumOptions {
	return &domain.ChecksumOptions{
		Algorithms: []domain.ChecksumAlgorithm{SHA1},
		UseCRC:     true,
		UseSsdeep:  false,
		BlockSize:  32 * 1024,
	}
}

// Validate checks that every configured algorithm is known.
func Validate(input *domain.ChecksumOptions) error {
	for _, alg := range input.Algorithms {
		if Kind(alg) != domain.KindCryptographic {
			continue
		}
		if _, err := Lookup(alg); err != nil {
			return err
		}
	}
	return nil
}
