package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/bidboard/bidboard-backend/internal/scoring"
	"github.com/bidboard/bidboard-backend/internal/types"
)

func TestAssignRanksCompetitionStyle(t *testing.T) {
	cases := []struct {
		name   string
		totals []float64
		want   []int
	}{
		{
			name:   "tie_for_first_skips_second",
			totals: []float64{9.0, 9.0, 8.5},
			want:   []int{1, 1, 3},
		},
		{
			name:   "tie_in_middle",
			totals: []float64{10, 7.5, 7.5, 6},
			want:   []int{1, 2, 2, 4},
		},
		{
			name:   "all_distinct",
			totals: []float64{5, 4, 3},
			want:   []int{1, 2, 3},
		},
		{
			name:   "all_tied",
			totals: []float64{2.4, 2.4, 2.4},
			want:   []int{1, 1, 1},
		},
		{
			name:   "single",
			totals: []float64{1.8},
			want:   []int{1},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rankings := make([]types.ProposalRanking, len(tc.totals))
			for i, total := range tc.totals {
				rankings[i] = types.ProposalRanking{TotalWeightedScore: total}
			}
			assignRanks(rankings)
			for i, r := range rankings {
				if r.Rank != tc.want[i] {
					t.Fatalf("rank[%d]=%d, want %d (totals=%v)", i, r.Rank, tc.want[i], tc.totals)
				}
			}
		})
	}
}

func TestRankProposalsEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t)
	template := env.createStandardTemplate(t, project.ID)
	p1 := env.createProposal(t, project.ID, "P1")
	p2 := env.createProposal(t, project.ID, "P2")

	technical := criterionByName(t, template, "Technical")
	budget := criterionByName(t, template, "Budget")

	// P1: Technical 8 -> 2.40, then revised to 6 -> 1.80.
	if _, err := env.scoreSvc.SubmitScore(env.ctx, SubmitScoreInput{
		ProposalID:  p1.ID,
		CriterionID: technical.ID,
		RawScore:    8,
	}); err != nil {
		t.Fatalf("SubmitScore P1 returned %v", err)
	}
	if _, err := env.scoreSvc.ReviseScore(env.ctx, ReviseScoreInput{
		ProposalID:  p1.ID,
		CriterionID: technical.ID,
		NewRawScore: floatPtr(6),
		Reason:      "reassessed after clarification",
	}); err != nil {
		t.Fatalf("ReviseScore P1 returned %v", err)
	}

	// P2: Technical 9 -> 2.70, Budget 7 -> 1.75, total 4.45.
	for _, s := range []struct {
		criterionID uuid.UUID
		raw         float64
	}{
		{technical.ID, 9},
		{budget.ID, 7},
	} {
		if _, err := env.scoreSvc.SubmitScore(env.ctx, SubmitScoreInput{
			ProposalID:  p2.ID,
			CriterionID: s.criterionID,
			RawScore:    s.raw,
		}); err != nil {
			t.Fatalf("SubmitScore P2 returned %v", err)
		}
	}

	rankings, err := env.rankingSvc.RankProposals(env.ctx, project.ID)
	if err != nil {
		t.Fatalf("RankProposals returned %v", err)
	}
	if len(rankings) != 2 {
		t.Fatalf("got %d rankings, want 2", len(rankings))
	}

	first, second := rankings[0], rankings[1]
	if first.ProposalID != p2.ID || first.Rank != 1 {
		t.Fatalf("first place = %v rank %d, want P2 rank 1", first.ProposalID, first.Rank)
	}
	if first.TotalWeightedScore != 4.45 {
		t.Fatalf("P2 total = %v, want 4.45", first.TotalWeightedScore)
	}
	if first.CriteriaScoredCount != 2 || first.CriteriaTotalCount != 4 {
		t.Fatalf("P2 completeness = %d/%d, want 2/4", first.CriteriaScoredCount, first.CriteriaTotalCount)
	}

	if second.ProposalID != p1.ID || second.Rank != 2 {
		t.Fatalf("second place = %v rank %d, want P1 rank 2", second.ProposalID, second.Rank)
	}
	if second.TotalWeightedScore != 1.80 {
		t.Fatalf("P1 total = %v, want 1.80", second.TotalWeightedScore)
	}
	if second.CriteriaScoredCount != 1 {
		t.Fatalf("P1 scored count = %d, want 1", second.CriteriaScoredCount)
	}
}

func TestRankProposalsTieSharesRank(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t)
	template, err := env.templateSvc.CreateTemplate(env.ctx, project.ID, "Single", []CriterionInput{
		{Name: "Overall", Weight: 100},
	})
	if err != nil {
		t.Fatalf("CreateTemplate returned %v", err)
	}
	overall := template.Criteria[0]

	pa := env.createProposal(t, project.ID, "A")
	pb := env.createProposal(t, project.ID, "B")
	pc := env.createProposal(t, project.ID, "C")

	for _, s := range []struct {
		proposalID uuid.UUID
		raw        float64
	}{
		{pa.ID, 9},
		{pb.ID, 9},
		{pc.ID, 8.5},
	} {
		if _, err := env.scoreSvc.SubmitScore(env.ctx, SubmitScoreInput{
			ProposalID:  s.proposalID,
			CriterionID: overall.ID,
			RawScore:    s.raw,
		}); err != nil {
			t.Fatalf("SubmitScore returned %v", err)
		}
	}

	rankings, err := env.rankingSvc.RankProposals(env.ctx, project.ID)
	if err != nil {
		t.Fatalf("RankProposals returned %v", err)
	}
	gotRanks := []int{rankings[0].Rank, rankings[1].Rank, rankings[2].Rank}
	wantRanks := []int{1, 1, 3}
	for i := range wantRanks {
		if gotRanks[i] != wantRanks[i] {
			t.Fatalf("ranks = %v, want %v", gotRanks, wantRanks)
		}
	}
	if rankings[2].ProposalID != pc.ID {
		t.Fatalf("third place = %v, want C", rankings[2].ProposalID)
	}
}

func TestRankProposalsEmptyAndMissingProject(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.rankingSvc.RankProposals(env.ctx, uuid.New())
	if scoring.KindOf(err) != scoring.KindNotFound {
		t.Fatalf("RankProposals kind=%q, want %q", scoring.KindOf(err), scoring.KindNotFound)
	}

	project := env.createProject(t)
	rankings, err := env.rankingSvc.RankProposals(env.ctx, project.ID)
	if err != nil {
		t.Fatalf("RankProposals returned %v for project without proposals", err)
	}
	if len(rankings) != 0 {
		t.Fatalf("got %d rankings for an empty project, want 0", len(rankings))
	}
}
