package domain

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	IDFormatHex32 = "hex32"
	IDFormatHex24 = "hex24"
	IDFormatUUID  = "uuid"
)

// IDFormat is one accepted identifier shape. Match must be safe for concurrent use.
type IDFormat struct {
	Name  string
	Match func(value string) bool
}

var (
	hex32Pattern = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)
	hex24Pattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
)

var idFormats = struct {
	sync.RWMutex
	list []IDFormat
}{
	list: []IDFormat{
		{Name: IDFormatHex32, Match: hex32Pattern.MatchString},
		{Name: IDFormatHex24, Match: hex24Pattern.MatchString},
		{Name: IDFormatUUID, Match: func(value string) bool {
			return len(value) == 36 && uuid.Validate(value) == nil
		}},
	},
}

// RegisterIDFormat appends a format to the registry. Formats are tried in registration order.
func RegisterIDFormat(format IDFormat) error {
	if format.Name == "" || format.Match == nil {
		return fmt.Errorf("id format requires a name and a matcher")
	}

	idFormats.Lock()
	defer idFormats.Unlock()

	for _, existing := range idFormats.list {
		if existing.Name == format.Name {
			return fmt.Errorf("id format %q already registered", format.Name)
		}
	}

	idFormats.list = append(idFormats.list, format)

	return nil
}

// IDFormats returns the registered format names in match order.
func IDFormats() []string {
	idFormats.RLock()
	defer idFormats.RUnlock()

	names := make([]string, 0, len(idFormats.list))
	for _, f := range idFormats.list {
		names = append(names, f.Name)
	}

	return names
}

// ID is an opaque task identifier that matched one of the registered formats.
type ID struct {
	value  string
	format string
}

func ParseID(value string) (ID, error) {
	trimmed := strings.TrimSpace(value)

	idFormats.RLock()
	defer idFormats.RUnlock()

	for _, f := range idFormats.list {
		if f.Match(trimmed) {
			return ID{value: trimmed, format: f.Name}, nil
		}
	}

	return ID{}, fmt.Errorf("%w: %q does not match any accepted format", ErrInvalidID, value)
}

// MustParseID is ParseID for ids produced by trusted code such as storage adapters.
func MustParseID(value string) ID {
	id, err := ParseID(value)
	if err != nil {
		panic(err)
	}

	return id
}

func (id ID) String() string {
	return id.value
}

// Format names the registered format that accepted this id.
func (id ID) Format() string {
	return id.format
}

func (id ID) IsZero() bool {
	return id.value == ""
}

func (id ID) Equals(other ID) bool {
	return !id.IsZero() && id.value == other.value
}
