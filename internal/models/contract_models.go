package models

import "time"

// Membership tier names recognized by the pricing table.
const (
	TierGold     = "Gold"
	TierSilver   = "Silver"
	TierPlatinum = "Platinum"
)

// Contract is a membership contract owned by a member. Status is never
// stored; it is derived from the end date on every read.
type Contract struct {
	ContractID     int64     `json:"contract_id" db:"contract_id"`
	StartDate      time.Time `json:"start_date" db:"start_date"`
	EndDate        time.Time `json:"end_date" db:"end_date"`
	MembershipType string    `json:"membership_type" db:"membership_type"`
	MemberID       int64     `json:"member_id" db:"member_id"`
	MemberName     *string   `json:"member_name,omitempty"` // joined for listings
}

// Contract status values derived from the latest contract's end date.
const (
	ContractStatusNone      = "NoContract"
	ContractStatusRenewSoon = "RenewSoon"
	ContractStatusExpired   = "Expired"
	ContractStatusActive    = "Active"
)

// ContractStatusResult is the payload of a contract status check.
type ContractStatusResult struct {
	Status  string     `json:"status"`
	EndDate *time.Time `json:"end_date,omitempty"`
}

// MembershipTier describes a tier from the static catalog.
type MembershipTier struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Details     []string `json:"details"`
}
