package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bidboard/bidboard-backend/internal/logger"
	"github.com/bidboard/bidboard-backend/internal/repos"
	"github.com/bidboard/bidboard-backend/internal/scoring"
	"github.com/bidboard/bidboard-backend/internal/types"
)

type RankingService interface {
	RankProposals(ctx context.Context, projectID uuid.UUID) ([]types.ProposalRanking, error)
}

type rankingService struct {
	db           *gorm.DB
	log          *logger.Logger
	projectRepo  repos.ProjectRepo
	proposalRepo repos.ProposalRepo
	templateRepo repos.ScoringTemplateRepo
	scoreRepo    repos.ProposalScoreRepo
}

func NewRankingService(
	db *gorm.DB,
	log *logger.Logger,
	projectRepo repos.ProjectRepo,
	proposalRepo repos.ProposalRepo,
	templateRepo repos.ScoringTemplateRepo,
	scoreRepo repos.ProposalScoreRepo,
) RankingService {
	serviceLog := log.With("service", "RankingService")
	return &rankingService{
		db:           db,
		log:          serviceLog,
		projectRepo:  projectRepo,
		proposalRepo: proposalRepo,
		templateRepo: templateRepo,
		scoreRepo:    scoreRepo,
	}
}

// RankProposals aggregates the current scores of every proposal on the
// project and orders them by total weighted score. Rankings are computed
// fresh on every call; nothing is cached between requests.
func (rs *rankingService) RankProposals(ctx context.Context, projectID uuid.UUID) ([]types.ProposalRanking, error) {
	projects, err := rs.projectRepo.GetByIDs(ctx, nil, []uuid.UUID{projectID})
	if err != nil {
		return nil, fmt.Errorf("error fetching project: %w", err)
	}
	if len(projects) == 0 {
		return nil, scoring.NewError(scoring.KindNotFound, "project %s does not exist", projectID)
	}

	criteriaTotal := 0
	template, err := rs.templateRepo.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("error fetching template: %w", err)
	}
	if template != nil {
		criteriaTotal = len(template.Criteria)
	}

	proposals, err := rs.proposalRepo.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("error fetching proposals: %w", err)
	}
	if len(proposals) == 0 {
		return []types.ProposalRanking{}, nil
	}

	proposalIDs := make([]uuid.UUID, 0, len(proposals))
	for _, p := range proposals {
		proposalIDs = append(proposalIDs, p.ID)
	}
	scores, err := rs.scoreRepo.GetByProposalIDs(ctx, nil, proposalIDs)
	if err != nil {
		return nil, fmt.Errorf("error fetching scores: %w", err)
	}

	totals := make(map[uuid.UUID]decimal.Decimal, len(proposals))
	scoredCounts := make(map[uuid.UUID]int, len(proposals))
	for _, s := range scores {
		totals[s.ProposalID] = totals[s.ProposalID].Add(decimal.NewFromFloat(s.WeightedScore))
		scoredCounts[s.ProposalID]++
	}

	rankings := make([]types.ProposalRanking, 0, len(proposals))
	for _, p := range proposals {
		rankings = append(rankings, types.ProposalRanking{
			ProposalID:          p.ID,
			ProposalTitle:       p.Title,
			TotalWeightedScore:  totals[p.ID].InexactFloat64(),
			CriteriaScoredCount: scoredCounts[p.ID],
			CriteriaTotalCount:  criteriaTotal,
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].TotalWeightedScore > rankings[j].TotalWeightedScore
	})
	assignRanks(rankings)
	return rankings, nil
}

// assignRanks applies competition ranking to a slice already sorted by
// descending total: equal totals share a rank and the next distinct total
// skips ahead ([9.0, 9.0, 8.5] -> [1, 1, 3]).
func assignRanks(rankings []types.ProposalRanking) {
	for i := range rankings {
		if i > 0 && rankings[i].TotalWeightedScore == rankings[i-1].TotalWeightedScore {
			rankings[i].Rank = rankings[i-1].Rank
			continue
		}
		rankings[i].Rank = i + 1
	}
}
