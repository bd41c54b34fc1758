package model

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Profile{},
		&Driver{},
		&Recruiter{},
		&Subscription{},
		&ContactUnlock{},
		&JobPosting{},
		&Application{},
		&Interview{},
		&Message{},
		&AnalyticsEvent{},
	}
}
