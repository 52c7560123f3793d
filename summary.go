package analogy

// Summary is the aggregate view of a batch run.
//
// Accuracies divide by Evaluated: outcomes that carried an expected answer
// and did not fail. NotFound and Invalid rank results are not failures;
// they stay in the denominator so that data problems visibly depress
// accuracy while also being tallied separately.
//
// MeanRank averages over every found rank, including ranks beyond TopN
// that were only reachable through the deeper search-space ranking. TopN
// bounds the display list and TopNAccuracy, nothing else.
type Summary struct {
	// Total is the number of outcomes aggregated.
	Total int
	// Evaluated is the number of non-failed outcomes with an expected
	// answer.
	Evaluated int
	// Found is the number of outcomes whose expected answer appeared
	// anywhere within the searched breadth.
	Found int
	// NotFound counts expected answers in the vocabulary but outside the
	// searched breadth.
	NotFound int
	// Invalid counts expected answers absent from the vocabulary.
	Invalid int
	// Failed counts outcomes whose query failed to resolve.
	Failed int

	// Top1Accuracy is the fraction of Evaluated outcomes ranked first.
	Top1Accuracy float64
	// TopNAccuracy is the fraction of Evaluated outcomes ranked within
	// topN.
	TopNAccuracy float64
	// MeanRank is the arithmetic mean over all found ranks, 0 when none.
	MeanRank float64
}

// Summarize reduces a sequence of outcomes into suite-level metrics.
// topN is the display breadth the accuracy cutoff refers to; values below
// 1 are treated as 1 so that TopNAccuracy can never undercut Top1Accuracy.
func Summarize(outcomes []Outcome, topN int) Summary {
	if topN < 1 {
		topN = 1
	}

	s := Summary{Total: len(outcomes)}
	top1 := 0
	withinTopN := 0
	rankSum := 0

	for _, o := range outcomes {
		if o.Failed() {
			s.Failed++
			continue
		}
		switch o.Rank.Status {
		case StatusNone:
			// Exploratory query without an expected answer; not scored.
		case StatusFound:
			s.Evaluated++
			s.Found++
			rankSum += o.Rank.Rank
			if o.Rank.Rank == 1 {
				top1++
			}
			if o.Rank.Rank <= topN {
				withinTopN++
			}
		case StatusNotFound:
			s.Evaluated++
			s.NotFound++
		case StatusInvalid:
			s.Evaluated++
			s.Invalid++
		}
	}

	if s.Evaluated > 0 {
		s.Top1Accuracy = float64(top1) / float64(s.Evaluated)
		s.TopNAccuracy = float64(withinTopN) / float64(s.Evaluated)
	}
	if s.Found > 0 {
		s.MeanRank = float64(rankSum) / float64(s.Found)
	}
	return s
}
