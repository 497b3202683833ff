// Package portfolio defines the three versioned entity kinds of a crypto
// portfolio: coins, stakeholders, and stakeholder profiles.
//
// Each kind is the versioned protocol instantiated with its own revision link
// kind. Only stakeholder profiles are indexed: under the global anchor
// "all_stakeholder_profiles" and under the profile's author.
package portfolio
