// Package models defines the client-side records kept in the local cache and
// exchanged with the remote store.
package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/herocards/internal/common"
)

// CurrentSchemaVersion tags every record written by this version of the
// client. Rows carrying a lower tag are legacy and are migrated on read.
const CurrentSchemaVersion = 1

// MaxStrengths is the upper bound on User.Strengths.
const MaxStrengths = 5

// User is the profile record, keyed by identity. It is only ever replaced as
// a whole.
type User struct {
	Identity          string   `json:"identity"`
	DisplayName       string   `json:"display_name"`
	PortraitReference string   `json:"portrait_reference"`
	Strengths         []string `json:"strengths"`
	Story             string   `json:"story,omitempty"`

	SchemaVersion int `json:"-"`
}

// Validate checks the invariants a profile must hold before it is stored.
func (u *User) Validate() error {
	if u == nil {
		return fmt.Errorf("%w: nil user", common.ErrInvalidRecord)
	}
	if u.Identity == "" {
		return common.ErrNoIdentity
	}
	if strings.TrimSpace(u.DisplayName) == "" {
		return fmt.Errorf("%w: display name is required", common.ErrInvalidRecord)
	}
	if len(u.Strengths) > MaxStrengths {
		return fmt.Errorf("%w: at most %d strengths, got %d", common.ErrInvalidRecord, MaxStrengths, len(u.Strengths))
	}
	for i, s := range u.Strengths {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: strength #%d is empty", common.ErrInvalidRecord, i+1)
		}
	}
	return nil
}

// Equal reports whether two profiles carry the same data.
func (u *User) Equal(o *User) bool {
	if u == nil || o == nil {
		return u == o
	}
	if u.Identity != o.Identity || u.DisplayName != o.DisplayName ||
		u.PortraitReference != o.PortraitReference || u.Story != o.Story ||
		len(u.Strengths) != len(o.Strengths) {
		return false
	}
	for i := range u.Strengths {
		if u.Strengths[i] != o.Strengths[i] {
			return false
		}
	}
	return true
}
