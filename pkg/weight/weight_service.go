package weight

import (
	"caltrack/domain"
	"caltrack/entities"
	"caltrack/internal/utils"
	"context"

	"github.com/google/uuid"
)

type (
	WeightService interface {
		WeighIn(ctx context.Context, req domain.WeighInRequest, userID string) (domain.WeighInResponse, error)
		GetRecentWeights(ctx context.Context, userID string, days int) ([]domain.WeighInResponse, error)
	}

	weightService struct {
		weightRepository WeightRepository
	}
)

func NewWeightService(weightRepository WeightRepository) WeightService {
	return &weightService{weightRepository: weightRepository}
}

func (s *weightService) WeighIn(ctx context.Context, req domain.WeighInRequest, userID string) (domain.WeighInResponse, error) {
	entryDate, err := utils.ParseCivilDate(req.EntryDate)
	if err != nil {
		return domain.WeighInResponse{}, domain.ErrInvalidEntryDate
	}
	if req.WeightLbs <= 0 {
		return domain.WeighInResponse{}, domain.ErrInvalidWeight
	}

	row := &entities.DailyWeight{
		ID:             uuid.New(),
		UserID:         userID,
		EntryDate:      entryDate,
		WeightLbs:      req.WeightLbs,
		BodyFatPercent: req.BodyFatPercent,
	}
	if err := s.weightRepository.UpsertWeight(ctx, row); err != nil {
		return domain.WeighInResponse{}, err
	}

	return domain.WeighInResponse{
		EntryDate:      utils.FormatCivilDate(entryDate),
		WeightLbs:      row.WeightLbs,
		BodyFatPercent: row.BodyFatPercent,
	}, nil
}

func (s *weightService) GetRecentWeights(ctx context.Context, userID string, days int) ([]domain.WeighInResponse, error) {
	if days < 1 {
		days = 14
	}
	loc := utils.CivilLocation()
	since := utils.CivilToday(loc).AddDate(0, 0, -(days - 1))

	rows, err := s.weightRepository.GetWeights(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	result := make([]domain.WeighInResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.WeighInResponse{
			EntryDate:      utils.FormatCivilDate(row.EntryDate),
			WeightLbs:      row.WeightLbs,
			BodyFatPercent: row.BodyFatPercent,
		})
	}
	return result, nil
}
