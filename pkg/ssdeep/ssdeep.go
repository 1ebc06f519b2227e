// Package ssdeep computes context triggered piecewise hashes (CTPH), the
// fuzzy signatures popularised by the ssdeep tool.
//
// A signature has the form "blocksize:sig1:sig2". A rolling hash over a
// seven byte window decides piece boundaries; every piece contributes one
// base64 character to the signature. sig1 uses the chosen block size, sig2
// twice that block size.
//
// State tracks every candidate block size at once instead of guessing one
// up front and retrying, so it can be fed incrementally and the final
// signature never depends on how the input was split across Write calls.
package ssdeep

import (
	"errors"
	"io"
	"strconv"
)

const (
	// RollingWindow is the width of the boundary detecting rolling hash.
	RollingWindow = 7

	// MinBlockSize is the smallest block size a signature can have.
	MinBlockSize = 3

	// SpamSumLength is the maximum length of the first signature part.
	SpamSumLength = 64

	// MaxResultLength bounds the textual length of a signature.
	MaxResultLength = 2*SpamSumLength + 20

	numBlockHashes = 31
	hashPrime      = 0x01000193
	hashInit       = 0x28021967

	// Largest input whose block size still fits into numBlockHashes.
	maxTotalSize = uint64(MinBlockSize) << (numBlockHashes - 1) * SpamSumLength
)

const b64 = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// ErrTooLarge is returned by Digest when more input was written than a
// signature can describe.
var ErrTooLarge = errors.New("ssdeep: input too large")

func blockSize(index int) uint64 {
	return uint64(MinBlockSize) << index
}

type rollState struct {
	window     [RollingWindow]byte
	h1, h2, h3 uint32
	n          uint32 // next window slot, always below RollingWindow
}

func (r *rollState) roll(c byte) {
	r.h2 -= r.h1
	r.h2 += RollingWindow * uint32(c)

	r.h1 += uint32(c)
	r.h1 -= uint32(r.window[r.n])

	r.window[r.n] = c
	r.n++
	if r.n == RollingWindow {
		r.n = 0
	}

	r.h3 <<= 5
	r.h3 ^= uint32(c)
}

func (r *rollState) sum() uint32 {
	return r.h1 + r.h2 + r.h3
}

func sumHash(c byte, h uint32) uint32 {
	return (h * hashPrime) ^ uint32(c)
}

// blockHash holds the signature being built for one block size. digest[index]
// is only meaningful once the signature is full (index == SpamSumLength-1):
// from then on the last character keeps being replaced.
type blockHash struct {
	digest     [SpamSumLength]byte
	index      int
	full       bool
	h, halfh   uint32
	halfDigest byte
}

func (b *blockHash) reset(h, halfh uint32) {
	*b = blockHash{h: h, halfh: halfh}
}

// State is a streaming fuzzy hash computation. The zero value is not usable;
// create states with New. A State is not safe for concurrent use.
type State struct {
	total    uint64
	bhStart  int
	bhEnd    int
	bh       [numBlockHashes]blockHash
	roll     rollState
	lastHash uint32
	needLast bool
}

// New returns an empty fuzzy hash state.
func New() *State {
	s := &State{}
	s.Reset()
	return s
}

// Reset discards all input written so far.
func (s *State) Reset() {
	*s = State{bhEnd: 1}
	s.bh[0].reset(hashInit, hashInit)
}

// Size returns the number of bytes written so far.
func (s *State) Size() uint64 {
	return s.total
}

// Write feeds p into the hash. It never fails.
func (s *State) Write(p []byte) (int, error) {
	for _, c := range p {
		s.step(c)
	}
	return len(p), nil
}

// WriteString is Write for strings.
func (s *State) WriteString(p string) (int, error) {
	for i := 0; i < len(p); i++ {
		s.step(p[i])
	}
	return len(p), nil
}

func (s *State) forkBlockHash() {
	last := &s.bh[s.bhEnd-1]
	if s.bhEnd < numBlockHashes {
		s.bh[s.bhEnd].reset(last.h, last.halfh)
		s.bhEnd++
	} else if !s.needLast {
		s.needLast = true
		s.lastHash = last.h
	}
}

// reduceBlockHash stops tracking the smallest block size once it can no
// longer be chosen for the final signature.
func (s *State) reduceBlockHash() {
	if s.bhEnd-s.bhStart < 2 {
		return
	}
	if blockSize(s.bhStart)*SpamSumLength >= s.total {
		return
	}
	if s.bh[s.bhStart+1].index < SpamSumLength/2 {
		return
	}
	s.bhStart++
}

func (s *State) step(c byte) {
	s.total++

	s.roll.roll(c)
	h := s.roll.sum()

	for i := s.bhStart; i < s.bhEnd; i++ {
		s.bh[i].h = sumHash(c, s.bh[i].h)
		s.bh[i].halfh = sumHash(c, s.bh[i].halfh)
	}
	if s.needLast {
		s.lastHash = sumHash(c, s.lastHash)
	}

	for i := s.bhStart; i < s.bhEnd; i++ {
		// A trigger for a block size implies one for every smaller size.
		bs := blockSize(i)
		if uint64(h)%bs != bs-1 {
			break
		}

		b := &s.bh[i]
		if b.index == 0 && !b.full {
			s.forkBlockHash()
		}

		b.digest[b.index] = b64[b.h%64]
		b.halfDigest = b64[b.halfh%64]

		if b.index < SpamSumLength-1 {
			b.index++
			b.h = hashInit
			if b.index < SpamSumLength/2 {
				b.halfh = hashInit
				b.halfDigest = 0
			}
		} else {
			b.full = true
			s.reduceBlockHash()
		}
	}
}

// Digest returns the signature of everything written so far. It does not
// modify the state; more input may be written afterwards.
func (s *State) Digest() (string, error) {
	if s.total > maxTotalSize {
		return "", ErrTooLarge
	}

	h := s.roll.sum()

	bi := s.bhStart
	for blockSize(bi)*SpamSumLength < s.total {
		bi++
	}
	for bi >= s.bhEnd {
		bi--
	}
	for bi > s.bhStart && s.bh[bi].index < SpamSumLength/2 {
		bi--
	}

	result := make([]byte, 0, MaxResultLength)
	result = strconv.AppendUint(result, blockSize(bi), 10)
	result = append(result, ':')

	b := &s.bh[bi]
	result = append(result, b.digest[:b.index]...)
	if h != 0 {
		result = append(result, b64[b.h%64])
	} else if b.full {
		result = append(result, b.digest[b.index])
	}
	result = append(result, ':')

	if bi < s.bhEnd-1 {
		next := &s.bh[bi+1]
		n := min(next.index, SpamSumLength/2-1)
		result = append(result, next.digest[:n]...)
		if h != 0 {
			result = append(result, b64[next.halfh%64])
		} else if next.halfDigest != 0 {
			result = append(result, next.halfDigest)
		}
	} else if h != 0 {
		if bi == 0 {
			result = append(result, b64[b.h%64])
		} else {
			result = append(result, b64[s.lastHash%64])
		}
	}

	return string(result), nil
}

// HashBytes returns the signature of data.
func HashBytes(data []byte) string {
	s := New()
	s.Write(data)
	// Digest only fails past maxTotalSize (192 GiB).
	sum, _ := s.Digest()
	return sum
}

// HashReader returns the signature of everything read from r.
func HashReader(r io.Reader) (string, error) {
	s := New()
	if _, err := io.Copy(s, r); err != nil {
		return "", err
	}
	return s.Digest()
}
