package fs

import (
	"fmt"
	"os"
	"strings"
)

// OpenOptions is the set of options a file-backed channel is opened with.
// The zero value is the empty set, which opens the file read-only.
type OpenOptions uint16

const (
	Read OpenOptions = 1 << iota
	Write
	Append
	Create
	CreateNew
	TruncateExisting
	Sync
	DSync
)

// ReadOnly is the option set used when a payload file is simply read.
const ReadOnly = Read

var optionNames = []struct {
	option OpenOptions
	name   string
}{
	{Read, "read"},
	{Write, "write"},
	{Append, "append"},
	{Create, "create"},
	{CreateNew, "create_new"},
	{TruncateExisting, "truncate_existing"},
	{Sync, "sync"},
	{DSync, "dsync"},
}

const allOptions = Read | Write | Append | Create | CreateNew | TruncateExisting | Sync | DSync

// Has reports whether every option in o is part of the set.
func (s OpenOptions) Has(o OpenOptions) bool {
	return s&o == o
}

// Valid reports whether the set only holds known options.
func (s OpenOptions) Valid() bool {
	return s&^allOptions == 0
}

// Flags translates the set into os.OpenFile flags.
func (s OpenOptions) Flags() int {
	writable := s.Has(Write) || s.Has(Append)

	var flags int
	switch {
	case writable && s.Has(Read):
		flags = os.O_RDWR
	case writable:
		flags = os.O_WRONLY
	default:
		flags = os.O_RDONLY
	}

	if s.Has(Append) {
		flags |= os.O_APPEND
	}
	if s.Has(CreateNew) {
		flags |= os.O_CREATE | os.O_EXCL
	} else if s.Has(Create) {
		flags |= os.O_CREATE
	}
	if s.Has(TruncateExisting) && writable {
		flags |= os.O_TRUNC
	}
	if s.Has(Sync) || s.Has(DSync) {
		flags |= os.O_SYNC
	}

	return flags
}

// Names returns the stable textual names of the options in the set.
func (s OpenOptions) Names() []string {
	names := make([]string, 0, len(optionNames))
	for _, entry := range optionNames {
		if s.Has(entry.option) {
			names = append(names, entry.name)
		}
	}
	return names
}

func (s OpenOptions) String() string {
	if s == 0 {
		return "none"
	}
	return strings.Join(s.Names(), "|")
}

// ParseOpenOptions builds a set from option names. Names are case
// insensitive; unknown names are rejected.
func ParseOpenOptions(names []string) (OpenOptions, error) {
	var set OpenOptions

next:
	for _, name := range names {
		normalized := strings.ToLower(strings.TrimSpace(name))
		for _, entry := range optionNames {
			if entry.name == normalized {
				set |= entry.option
				continue next
			}
		}
		return 0, fmt.Errorf("unknown open option %q", name)
	}

	return set, nil
}
