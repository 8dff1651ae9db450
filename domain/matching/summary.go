package matching

// RunSummary aggregates one matching run.
type RunSummary struct {
	requirementID int64
	totalItems    int
	totalMatches  int
	matched       int
	partial       int
	unmatched     int
}

// NewRunSummary computes a summary over the records produced by one run.
func NewRunSummary(requirementID int64, totalItems int, records []MatchRecord) RunSummary {
	s := RunSummary{requirementID: requirementID, totalItems: totalItems, totalMatches: len(records)}
	for _, r := range records {
		switch r.Status() {
		case StatusMatched:
			s.matched++
		case StatusPartialMatched:
			s.partial++
		default:
			s.unmatched++
		}
	}
	return s
}

// RequirementID returns the requirement the summary describes.
func (s RunSummary) RequirementID() int64 { return s.requirementID }

// TotalItems returns the number of items in the requirement, including items
// that received no embedding.
func (s RunSummary) TotalItems() int { return s.totalItems }

// TotalMatches returns the total number of match records produced.
func (s RunSummary) TotalMatches() int { return s.totalMatches }

// Matched returns the count of matched-tier records.
func (s RunSummary) Matched() int { return s.matched }

// PartialMatched returns the count of partial-tier records.
func (s RunSummary) PartialMatched() int { return s.partial }

// Unmatched returns the count of below-threshold records.
func (s RunSummary) Unmatched() int { return s.unmatched }

// Statistics aggregates the persisted match records of a requirement.
// A requirement with no records yields the zero value, never an error.
type Statistics struct {
	totalItems    int
	totalMatches  int
	avgSimilarity float64
	maxSimilarity float64
	minSimilarity float64
	statusCounts  map[MatchStatus]int
}

// NewStatistics computes statistics over a requirement's records.
func NewStatistics(totalItems int, records []MatchRecord) Statistics {
	stats := Statistics{
		totalItems:   totalItems,
		totalMatches: len(records),
		statusCounts: map[MatchStatus]int{
			StatusMatched:        0,
			StatusPartialMatched: 0,
			StatusUnmatched:      0,
		},
	}
	if len(records) == 0 {
		return stats
	}

	var sum float64
	stats.minSimilarity = records[0].Similarity()
	stats.maxSimilarity = records[0].Similarity()
	for _, r := range records {
		sim := r.Similarity()
		sum += sim
		if sim > stats.maxSimilarity {
			stats.maxSimilarity = sim
		}
		if sim < stats.minSimilarity {
			stats.minSimilarity = sim
		}
		stats.statusCounts[r.Status()]++
	}
	stats.avgSimilarity = sum / float64(len(records))
	return stats
}

// TotalItems returns the requirement's item count.
func (s Statistics) TotalItems() int { return s.totalItems }

// TotalMatches returns the record count.
func (s Statistics) TotalMatches() int { return s.totalMatches }

// AvgSimilarity returns the arithmetic mean similarity, 0 when empty.
func (s Statistics) AvgSimilarity() float64 { return s.avgSimilarity }

// MaxSimilarity returns the highest similarity, 0 when empty.
func (s Statistics) MaxSimilarity() float64 { return s.maxSimilarity }

// MinSimilarity returns the lowest similarity, 0 when empty.
func (s Statistics) MinSimilarity() float64 { return s.minSimilarity }

// StatusCount returns the record count for one status.
func (s Statistics) StatusCount(status MatchStatus) int {
	if s.statusCounts == nil {
		return 0
	}
	return s.statusCounts[status]
}

// ResultRow is one match in a grouped result view, joined with its item and
// feature context for display.
type ResultRow struct {
	recordID           int64
	itemText           string
	featureName        string
	featureDescription string
	productName        string
	similarity         float64
	rank               int
}

// NewResultRow creates a ResultRow.
func NewResultRow(recordID int64, itemText, featureName, featureDescription, productName string, similarity float64, rank int) ResultRow {
	return ResultRow{
		recordID:           recordID,
		itemText:           itemText,
		featureName:        featureName,
		featureDescription: featureDescription,
		productName:        productName,
		similarity:         similarity,
		rank:               rank,
	}
}

// RecordID returns the match record ID.
func (r ResultRow) RecordID() int64 { return r.recordID }

// ItemText returns the item's text.
func (r ResultRow) ItemText() string { return r.itemText }

// FeatureName returns the matched feature's name.
func (r ResultRow) FeatureName() string { return r.featureName }

// FeatureDescription returns the matched feature's description.
func (r ResultRow) FeatureDescription() string { return r.featureDescription }

// ProductName returns the owning product's name.
func (r ResultRow) ProductName() string { return r.productName }

// Similarity returns the similarity score.
func (r ResultRow) Similarity() float64 { return r.similarity }

// Rank returns the record's rank within its item.
func (r ResultRow) Rank() int { return r.rank }

// GroupedResults holds a requirement's matches grouped by classification
// status, each group ordered by similarity descending.
type GroupedResults struct {
	matched   []ResultRow
	partial   []ResultRow
	unmatched []ResultRow
}

// NewGroupedResults groups rows by status. Rows are expected in
// similarity-descending order and keep that order within each group.
func NewGroupedResults(rows []ResultRow, statuses []MatchStatus) GroupedResults {
	var g GroupedResults
	for i, row := range rows {
		switch statuses[i] {
		case StatusMatched:
			g.matched = append(g.matched, row)
		case StatusPartialMatched:
			g.partial = append(g.partial, row)
		default:
			g.unmatched = append(g.unmatched, row)
		}
	}
	return g
}

// Matched returns the matched-tier rows.
func (g GroupedResults) Matched() []ResultRow { return g.matched }

// PartialMatched returns the partial-tier rows.
func (g GroupedResults) PartialMatched() []ResultRow { return g.partial }

// Unmatched returns the below-threshold rows.
func (g GroupedResults) Unmatched() []ResultRow { return g.unmatched }
