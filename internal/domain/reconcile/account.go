package reconcile

import (
	"strings"

	"github.com/google/uuid"

	"github.com/poflow/backend/internal/domain/shared"
)

// UnknownProject is the placeholder used when a staged row carries no
// project name; classification and the uniqueness lookup both see it.
const UnknownProject = "Unknown Project"

// Account groups purchase orders into a billing account derived from the
// project name. Accounts are created lazily during PO reconciliation and
// never deleted; needs_review is cleared only by explicit human action.
type Account struct {
	shared.BaseEntity
	TenantID    uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:uq_tenant_project"`
	ProjectName string    `gorm:"column:project_name;size:255;uniqueIndex:uq_tenant_project"`
	AccountName string    `gorm:"column:account_name;size:255;not null"`
	NeedsReview bool      `gorm:"column:needs_review;default:false"`
}

// TableName returns the table name for Account
func (Account) TableName() string {
	return "accounts"
}

type classifierRule struct {
	keyword string
	account string
}

// Ordered, first match wins.
var classifierRules = []classifierRule{
	{"iam", "IAM Account"},
	{"orange", "Orange Account"},
	{"inwi", "INWI Account"},
}

// NormalizeProjectName trims the raw project name and substitutes the
// placeholder when it is blank.
func NormalizeProjectName(projectName string) string {
	name := strings.TrimSpace(projectName)
	if name == "" {
		return UnknownProject
	}
	return name
}

// ClassifyProject maps a project name to a billing account label via
// case-insensitive keyword rules. Unmatched names fall back to "Other"
// and are flagged for human review.
func ClassifyProject(projectName string) (accountName string, needsReview bool) {
	lower := strings.ToLower(projectName)
	for _, r := range classifierRules {
		if strings.Contains(lower, r.keyword) {
			return r.account, false
		}
	}
	return "Other", true
}

// NewAccount classifies the (normalized) project name and builds the
// account row for it.
func NewAccount(tenantID uuid.UUID, projectName string) *Account {
	name := NormalizeProjectName(projectName)
	accountName, needsReview := ClassifyProject(name)
	return &Account{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		ProjectName: name,
		AccountName: accountName,
		NeedsReview: needsReview,
	}
}

// Review sets a human-chosen account name and clears the review flag
func (a *Account) Review(accountName string) error {
	name := strings.TrimSpace(accountName)
	if name == "" {
		return shared.ErrInvalidInput
	}
	a.AccountName = name
	a.NeedsReview = false
	return nil
}
