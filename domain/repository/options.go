package repository

// WithID filters by the "id" column.
func WithID(id int64) Option {
	return WithCondition("id", id)
}

// WithIDIn filters by the "id" column using IN.
func WithIDIn(ids []int64) Option {
	return WithConditionIn("id", ids)
}

// WithName filters by the "name" column.
func WithName(name string) Option {
	return WithCondition("name", name)
}

// WithActive filters for active rows (is_active = true).
func WithActive() Option {
	return WithCondition("is_active", true)
}

// WithDefault filters for the default row (is_default = true).
func WithDefault() Option {
	return WithCondition("is_default", true)
}

// WithProductID filters by the "product_id" column.
func WithProductID(id int64) Option {
	return WithCondition("product_id", id)
}

// WithFeatureID filters by the "feature_id" column.
func WithFeatureID(id int64) Option {
	return WithCondition("feature_id", id)
}

// WithFeatureIDIn filters by the "feature_id" column using IN.
func WithFeatureIDIn(ids []int64) Option {
	return WithConditionIn("feature_id", ids)
}

// WithRequirementID filters by the "requirement_id" column.
func WithRequirementID(id int64) Option {
	return WithCondition("requirement_id", id)
}

// WithItemID filters by the "requirement_item_id" column.
func WithItemID(id int64) Option {
	return WithCondition("requirement_item_id", id)
}

// WithModelName filters by the "model_name" column.
func WithModelName(name string) Option {
	return WithCondition("model_name", name)
}

// WithStatus filters by the "status" column.
func WithStatus(status string) Option {
	return WithCondition("status", status)
}
