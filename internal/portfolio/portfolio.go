package portfolio

import (
	"fmt"

	"github.com/roach88/revlog/internal/ir"
	"github.com/roach88/revlog/internal/store"
	"github.com/roach88/revlog/internal/versioned"
)

// Link kinds.
const (
	CoinUpdates               ir.LinkKind = "CoinUpdates"
	StakeholderUpdates        ir.LinkKind = "StakeholderUpdates"
	StakeholderProfileUpdates ir.LinkKind = "StakeholderProfileUpdates"
	AllStakeholderProfiles    ir.LinkKind = "AllStakeholderProfiles"
	StakeholderProfileLink    ir.LinkKind = "StakeholderProfile"
)

// AllStakeholderProfilesAnchor names the global profile index.
const AllStakeholderProfilesAnchor = "all_stakeholder_profiles"

var (
	CoinKind = versioned.EntryKind{
		Name:        "coin",
		UpdatesLink: CoinUpdates,
	}
	StakeholderKind = versioned.EntryKind{
		Name:        "stakeholder",
		UpdatesLink: StakeholderUpdates,
	}
	StakeholderProfileKind = versioned.EntryKind{
		Name:         "stakeholder_profile",
		UpdatesLink:  StakeholderProfileUpdates,
		GlobalAnchor: AllStakeholderProfilesAnchor,
		GlobalLink:   AllStakeholderProfiles,
		AuthorLink:   StakeholderProfileLink,
	}
)

// UpdateLinkKinds lists every revision link kind. None may ever be deleted.
func UpdateLinkKinds() []ir.LinkKind {
	return []ir.LinkKind{CoinUpdates, StakeholderUpdates, StakeholderProfileUpdates}
}

// StoreOptions returns the options a store must be opened with to enforce
// the portfolio's link policy.
func StoreOptions() []store.Option {
	return []store.Option{store.WithLinkGuard(versioned.RevisionGuard(UpdateLinkKinds()...))}
}

// Portfolio bundles one collection per entity kind.
type Portfolio struct {
	Coins        *Records[Coin]
	Stakeholders *Records[Stakeholder]
	Profiles     *Records[StakeholderProfile]
}

// New creates the portfolio collections over sub, writing as session.
func New(sub versioned.Substrate, session versioned.Session, opts ...versioned.CollectionOption) (*Portfolio, error) {
	coins, err := versioned.NewCollection(sub, session, CoinKind, opts...)
	if err != nil {
		return nil, err
	}
	stakeholders, err := versioned.NewCollection(sub, session, StakeholderKind, opts...)
	if err != nil {
		return nil, err
	}
	profiles, err := versioned.NewCollection(sub, session, StakeholderProfileKind, opts...)
	if err != nil {
		return nil, err
	}
	return &Portfolio{
		Coins:        newRecords(coins, encodeCoin, decodeCoin),
		Stakeholders: newRecords(stakeholders, encodeStakeholder, decodeStakeholder),
		Profiles:     newRecords(profiles, encodeProfile, decodeProfile),
	}, nil
}

// Kind returns the untyped view of the named kind. Accepts the entry type
// name or the short CLI name ("profile").
func (p *Portfolio) Kind(name string) (Kind, error) {
	switch name {
	case CoinKind.Name:
		return p.Coins, nil
	case StakeholderKind.Name:
		return p.Stakeholders, nil
	case StakeholderProfileKind.Name, "profile":
		return p.Profiles, nil
	}
	return nil, fmt.Errorf("unknown entity kind %q", name)
}
