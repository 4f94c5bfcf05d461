package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/bidboard/bidboard-backend/internal/scoring"
	"github.com/bidboard/bidboard-backend/internal/types"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(s string) *string     { return &s }

func TestSubmitScoreComputesWeightedScore(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t)
	template := env.createStandardTemplate(t, project.ID)
	proposal := env.createProposal(t, project.ID, "P1")
	technical := criterionByName(t, template, "Technical")

	result, err := env.scoreSvc.SubmitScore(env.ctx, SubmitScoreInput{
		ProposalID:  proposal.ID,
		CriterionID: technical.ID,
		RawScore:    8,
		Notes:       "solid architecture",
	})
	if err != nil {
		t.Fatalf("SubmitScore returned %v", err)
	}
	if result.Score.WeightedScore != 2.40 {
		t.Fatalf("weighted score = %v, want 2.40", result.Score.WeightedScore)
	}
	if result.Score.ScoredBy != env.reviewerID {
		t.Fatalf("scored_by = %v, want %v", result.Score.ScoredBy, env.reviewerID)
	}
	if result.LockedProposalWarning {
		t.Fatal("locked warning raised for an undecided proposal")
	}
}

func TestSubmitScoreValidation(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t)
	template := env.createStandardTemplate(t, project.ID)
	proposal := env.createProposal(t, project.ID, "P1")
	technical := criterionByName(t, template, "Technical")

	// Criterion from an unrelated project's template.
	otherProject := env.createProject(t)
	otherTemplate, err := env.templateSvc.CreateTemplate(env.ctx, otherProject.ID, "Other", []CriterionInput{
		{Name: "Fit", Weight: 100},
	})
	if err != nil {
		t.Fatalf("failed to create second template: %v", err)
	}
	foreignCriterion := otherTemplate.Criteria[0]

	cases := []struct {
		name     string
		in       SubmitScoreInput
		wantKind scoring.ErrorKind
	}{
		{
			name:     "raw_score_below_range",
			in:       SubmitScoreInput{ProposalID: proposal.ID, CriterionID: technical.ID, RawScore: 0.5},
			wantKind: scoring.KindScoreOutOfRange,
		},
		{
			name:     "raw_score_above_range",
			in:       SubmitScoreInput{ProposalID: proposal.ID, CriterionID: technical.ID, RawScore: 11},
			wantKind: scoring.KindScoreOutOfRange,
		},
		{
			name:     "unknown_proposal",
			in:       SubmitScoreInput{ProposalID: uuid.New(), CriterionID: technical.ID, RawScore: 5},
			wantKind: scoring.KindNotFound,
		},
		{
			name:     "unknown_criterion",
			in:       SubmitScoreInput{ProposalID: proposal.ID, CriterionID: uuid.New(), RawScore: 5},
			wantKind: scoring.KindCriterionMismatch,
		},
		{
			name:     "criterion_from_other_project",
			in:       SubmitScoreInput{ProposalID: proposal.ID, CriterionID: foreignCriterion.ID, RawScore: 5},
			wantKind: scoring.KindCriterionMismatch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.scoreSvc.SubmitScore(env.ctx, tc.in)
			if scoring.KindOf(err) != tc.wantKind {
				t.Fatalf("SubmitScore kind=%q, want %q (err=%v)", scoring.KindOf(err), tc.wantKind, err)
			}
		})
	}
}

func TestSubmitScoreRejectsDuplicateCell(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t)
	template := env.createStandardTemplate(t, project.ID)
	proposal := env.createProposal(t, project.ID, "P1")
	technical := criterionByName(t, template, "Technical")

	in := SubmitScoreInput{ProposalID: proposal.ID, CriterionID: technical.ID, RawScore: 7}
	if _, err := env.scoreSvc.SubmitScore(env.ctx, in); err != nil {
		t.Fatalf("first SubmitScore returned %v", err)
	}
	_, err := env.scoreSvc.SubmitScore(env.ctx, in)
	if scoring.KindOf(err) != scoring.KindDuplicateScore {
		t.Fatalf("second SubmitScore kind=%q, want %q", scoring.KindOf(err), scoring.KindDuplicateScore)
	}
}

func TestReviseScoreRecomputesAndRecordsHistory(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t)
	template := env.createStandardTemplate(t, project.ID)
	proposal := env.createProposal(t, project.ID, "P1")
	technical := criterionByName(t, template, "Technical")

	if _, err := env.scoreSvc.SubmitScore(env.ctx, SubmitScoreInput{
		ProposalID:  proposal.ID,
		CriterionID: technical.ID,
		RawScore:    8,
	}); err != nil {
		t.Fatalf("SubmitScore returned %v", err)
	}

	result, err := env.scoreSvc.ReviseScore(env.ctx, ReviseScoreInput{
		ProposalID:  proposal.ID,
		CriterionID: technical.ID,
		NewRawScore: floatPtr(6),
		Reason:      "reassessed after clarification",
	})
	if err != nil {
		t.Fatalf("ReviseScore returned %v", err)
	}
	if result.Score.RawScore != 6 || result.Score.WeightedScore != 1.80 {
		t.Fatalf("revised score = %v/%v, want 6/1.80", result.Score.RawScore, result.Score.WeightedScore)
	}

	history, err := env.scoreSvc.GetScoreHistory(env.ctx, proposal.ID, technical.ID)
	if err != nil {
		t.Fatalf("GetScoreHistory returned %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history has %d rows, want 1 (submit must not create history)", len(history))
	}
	h := history[0]
	if h.PreviousRawScore != 8 || h.NewRawScore != 6 {
		t.Fatalf("history raw scores = %v -> %v, want 8 -> 6", h.PreviousRawScore, h.NewRawScore)
	}
	if h.Reason != "reassessed after clarification" {
		t.Fatalf("history reason = %q", h.Reason)
	}
	if h.RevisedBy != env.reviewerID {
		t.Fatalf("history revised_by = %v, want %v", h.RevisedBy, env.reviewerID)
	}
}

func TestReviseScoreAppendsOneHistoryRowPerRevision(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t)
	template := env.createStandardTemplate(t, project.ID)
	proposal := env.createProposal(t, project.ID, "P1")
	technical := criterionByName(t, template, "Technical")

	if _, err := env.scoreSvc.SubmitScore(env.ctx, SubmitScoreInput{
		ProposalID:  proposal.ID,
		CriterionID: technical.ID,
		RawScore:    5,
	}); err != nil {
		t.Fatalf("SubmitScore returned %v", err)
	}

	raws := []float64{6, 7, 8}
	for _, raw := range raws {
		if _, err := env.scoreSvc.ReviseScore(env.ctx, ReviseScoreInput{
			ProposalID:  proposal.ID,
			CriterionID: technical.ID,
			NewRawScore: floatPtr(raw),
			Reason:      "recalibrated",
		}); err != nil {
			t.Fatalf("ReviseScore(%v) returned %v", raw, err)
		}
	}

	history, err := env.scoreSvc.GetScoreHistory(env.ctx, proposal.ID, technical.ID)
	if err != nil {
		t.Fatalf("GetScoreHistory returned %v", err)
	}
	if len(history) != len(raws) {
		t.Fatalf("history has %d rows after %d revisions", len(history), len(raws))
	}
	// Oldest first, each entry chaining off the previous value.
	prev := 5.0
	for i, h := range history {
		if h.PreviousRawScore != prev || h.NewRawScore != raws[i] {
			t.Fatalf("history[%d] = %v -> %v, want %v -> %v", i, h.PreviousRawScore, h.NewRawScore, prev, raws[i])
		}
		prev = raws[i]
	}
}

func TestReviseScoreValidation(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t)
	template := env.createStandardTemplate(t, project.ID)
	proposal := env.createProposal(t, project.ID, "P1")
	technical := criterionByName(t, template, "Technical")

	if _, err := env.scoreSvc.SubmitScore(env.ctx, SubmitScoreInput{
		ProposalID:  proposal.ID,
		CriterionID: technical.ID,
		RawScore:    7,
		Notes:       "ok",
	}); err != nil {
		t.Fatalf("SubmitScore returned %v", err)
	}

	cases := []struct {
		name     string
		in       ReviseScoreInput
		wantKind scoring.ErrorKind
	}{
		{
			name: "empty_reason",
			in: ReviseScoreInput{
				ProposalID:  proposal.ID,
				CriterionID: technical.ID,
				NewRawScore: floatPtr(8),
				Reason:      "   ",
			},
			wantKind: scoring.KindReasonRequired,
		},
		{
			name: "no_effective_change",
			in: ReviseScoreInput{
				ProposalID:  proposal.ID,
				CriterionID: technical.ID,
				NewRawScore: floatPtr(7),
				NewNotes:    strPtr("ok"),
				Reason:      "touch",
			},
			wantKind: scoring.KindNoChangeDetected,
		},
		{
			name: "nothing_provided",
			in: ReviseScoreInput{
				ProposalID:  proposal.ID,
				CriterionID: technical.ID,
				Reason:      "touch",
			},
			wantKind: scoring.KindNoChangeDetected,
		},
		{
			name: "new_raw_out_of_range",
			in: ReviseScoreInput{
				ProposalID:  proposal.ID,
				CriterionID: technical.ID,
				NewRawScore: floatPtr(12),
				Reason:      "bump",
			},
			wantKind: scoring.KindScoreOutOfRange,
		},
		{
			name: "unscored_cell",
			in: ReviseScoreInput{
				ProposalID:  proposal.ID,
				CriterionID: criterionByName(t, template, "Budget").ID,
				NewRawScore: floatPtr(5),
				Reason:      "first pass",
			},
			wantKind: scoring.KindNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.scoreSvc.ReviseScore(env.ctx, tc.in)
			if scoring.KindOf(err) != tc.wantKind {
				t.Fatalf("ReviseScore kind=%q, want %q (err=%v)", scoring.KindOf(err), tc.wantKind, err)
			}
		})
	}

	// Failed revisions must leave no audit rows behind.
	history, err := env.scoreSvc.GetScoreHistory(env.ctx, proposal.ID, technical.ID)
	if err != nil {
		t.Fatalf("GetScoreHistory returned %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("history has %d rows after only rejected revisions", len(history))
	}
}

func TestNotesOnlyRevision(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t)
	template := env.createStandardTemplate(t, project.ID)
	proposal := env.createProposal(t, project.ID, "P1")
	technical := criterionByName(t, template, "Technical")

	if _, err := env.scoreSvc.SubmitScore(env.ctx, SubmitScoreInput{
		ProposalID:  proposal.ID,
		CriterionID: technical.ID,
		RawScore:    7,
		Notes:       "first impression",
	}); err != nil {
		t.Fatalf("SubmitScore returned %v", err)
	}

	result, err := env.scoreSvc.ReviseScore(env.ctx, ReviseScoreInput{
		ProposalID:  proposal.ID,
		CriterionID: technical.ID,
		NewNotes:    strPtr("clarified with vendor"),
		Reason:      "notes update",
	})
	if err != nil {
		t.Fatalf("ReviseScore returned %v", err)
	}
	if result.Score.RawScore != 7 || result.Score.WeightedScore != 2.10 {
		t.Fatalf("score changed on notes-only revision: %v/%v", result.Score.RawScore, result.Score.WeightedScore)
	}
	if result.Score.Notes != "clarified with vendor" {
		t.Fatalf("notes = %q", result.Score.Notes)
	}

	history, _ := env.scoreSvc.GetScoreHistory(env.ctx, proposal.ID, technical.ID)
	if len(history) != 1 {
		t.Fatalf("history has %d rows, want 1", len(history))
	}
	if history[0].PreviousNotes != "first impression" || history[0].NewNotes != "clarified with vendor" {
		t.Fatalf("history notes = %q -> %q", history[0].PreviousNotes, history[0].NewNotes)
	}
	if history[0].PreviousRawScore != 7 || history[0].NewRawScore != 7 {
		t.Fatalf("history raw scores = %v -> %v, want unchanged 7 -> 7", history[0].PreviousRawScore, history[0].NewRawScore)
	}
}

func TestLockedProposalWarning(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t)
	template := env.createStandardTemplate(t, project.ID)
	proposal := env.createProposal(t, project.ID, "P1")
	technical := criterionByName(t, template, "Technical")
	budget := criterionByName(t, template, "Budget")

	if _, err := env.scoreSvc.SubmitScore(env.ctx, SubmitScoreInput{
		ProposalID:  proposal.ID,
		CriterionID: technical.ID,
		RawScore:    8,
	}); err != nil {
		t.Fatalf("SubmitScore returned %v", err)
	}

	if _, err := env.proposalSvc.DecideProposal(env.ctx, proposal.ID, types.ProposalStatusAccepted); err != nil {
		t.Fatalf("DecideProposal returned %v", err)
	}

	// Submitting on a fresh cell of the accepted proposal warns but writes.
	submitResult, err := env.scoreSvc.SubmitScore(env.ctx, SubmitScoreInput{
		ProposalID:  proposal.ID,
		CriterionID: budget.ID,
		RawScore:    6,
	})
	if err != nil {
		t.Fatalf("SubmitScore on locked proposal returned %v", err)
	}
	if !submitResult.LockedProposalWarning {
		t.Fatal("submit on accepted proposal did not raise the locked warning")
	}

	// Revising the existing cell warns too, and the write lands.
	reviseResult, err := env.scoreSvc.ReviseScore(env.ctx, ReviseScoreInput{
		ProposalID:  proposal.ID,
		CriterionID: technical.ID,
		NewRawScore: floatPtr(9),
		Reason:      "post-award correction",
	})
	if err != nil {
		t.Fatalf("ReviseScore on locked proposal returned %v", err)
	}
	if !reviseResult.LockedProposalWarning {
		t.Fatal("revise on accepted proposal did not raise the locked warning")
	}

	var stored types.ProposalScore
	if err := env.db.Where("proposal_id = ? AND criterion_id = ?", proposal.ID, technical.ID).First(&stored).Error; err != nil {
		t.Fatalf("failed to reload score: %v", err)
	}
	if stored.RawScore != 9 || stored.WeightedScore != 2.70 {
		t.Fatalf("stored score = %v/%v, want 9/2.70", stored.RawScore, stored.WeightedScore)
	}
	if !stored.IsFinal {
		t.Fatal("score on a decided proposal is not flagged final")
	}
}
