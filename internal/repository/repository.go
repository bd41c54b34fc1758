package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles every gorm-backed repository so that multi-table writes can share a transaction.
type Repositories struct {
	Profiles      ProfileRepository
	Drivers       DriverRepository
	Recruiters    RecruiterRepository
	Subscriptions SubscriptionRepository
	Jobs          JobRepository
	Applications  ApplicationRepository
	Interviews    InterviewRepository
	Messages      MessageRepository
	Events        AnalyticsEventRepository

	db *gorm.DB
}

// Transactor runs fn with repositories bound to one database transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx *Repositories) error) error
}

// New builds all repositories over db.
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Profiles:      NewProfileRepository(db),
		Drivers:       NewDriverRepository(db),
		Recruiters:    NewRecruiterRepository(db),
		Subscriptions: NewSubscriptionRepository(db),
		Jobs:          NewJobRepository(db),
		Applications:  NewApplicationRepository(db),
		Interviews:    NewInterviewRepository(db),
		Messages:      NewMessageRepository(db),
		Events:        NewAnalyticsEventRepository(db),
		db:            db,
	}
}

// WithTransaction executes fn within a database transaction.
func (r *Repositories) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, New(tx))
	})
}

// DB exposes the underlying handle for health checks.
func (r *Repositories) DB() *gorm.DB {
	return r.db
}
