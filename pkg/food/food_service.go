package food

import (
	"bytes"
	"caltrack/domain"
	"caltrack/entities"
	"caltrack/internal/utils"
	"caltrack/internal/utils/storage"
	"caltrack/pkg/ai"
	"caltrack/pkg/plan"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const (
	extractionSourceManual = "manual"
	extractionSourceAiText = "ai_text"
)

type (
	FoodService interface {
		AddEntry(ctx context.Context, req domain.AddFoodEntryRequest, userID string) (domain.FoodEntryResponse, domain.GateResult, error)
		AddEntryFromText(ctx context.Context, req domain.AiFoodEntryRequest, userID string) (domain.FoodEntryResponse, domain.GateResult, error)
		GetEntries(ctx context.Context, userID string, date string) ([]domain.FoodEntryResponse, domain.GateResult, error)
		GetDayTotals(ctx context.Context, userID string, date string) (domain.DayTotalsResponse, domain.GateResult, error)
		DeleteEntry(ctx context.Context, id string, userID string) error
		ExportEntries(ctx context.Context, userID string) (domain.ExportResponse, error)
		RunLifecycle(ctx context.Context) error
	}

	foodService struct {
		foodRepository FoodRepository
		planService    plan.PlanService
		extractor      ai.Extractor
		s3             storage.AwsS3
	}
)

func NewFoodService(foodRepository FoodRepository, planService plan.PlanService, extractor ai.Extractor, s3 storage.AwsS3) FoodService {
	return &foodService{
		foodRepository: foodRepository,
		planService:    planService,
		extractor:      extractor,
		s3:             s3,
	}
}

func (s *foodService) AddEntry(ctx context.Context, req domain.AddFoodEntryRequest, userID string) (domain.FoodEntryResponse, domain.GateResult, error) {
	entryDate, err := utils.ParseCivilDate(req.EntryDate)
	if err != nil {
		return domain.FoodEntryResponse{}, domain.Allowed, domain.ErrInvalidEntryDate
	}
	if req.Calories < 0 {
		return domain.FoodEntryResponse{}, domain.Allowed, domain.ErrInvalidCalories
	}

	gate, err := s.planService.EnforceFoodEntryLimit(ctx, userID, entryDate)
	if err != nil {
		return domain.FoodEntryResponse{}, domain.Allowed, err
	}
	if !gate.OK {
		return domain.FoodEntryResponse{}, gate, nil
	}

	entry := &entities.FoodEntry{
		ID:               uuid.New(),
		UserID:           userID,
		EntryDate:        entryDate,
		TakenAt:          time.Now(),
		Description:      req.Description,
		Calories:         req.Calories,
		ProteinG:         req.ProteinG,
		CarbsG:           req.CarbsG,
		FatG:             req.FatG,
		ExtractionSource: extractionSourceManual,
	}
	if err := s.foodRepository.AddEntry(ctx, entry); err != nil {
		return domain.FoodEntryResponse{}, domain.Allowed, err
	}

	return toEntryResponse(entry), domain.Allowed, nil
}

// AddEntryFromText runs the description through the AI extractor and logs the
// result. The AI gate both checks and consumes quota, so an extraction
// failure after it still costs the attempt.
func (s *foodService) AddEntryFromText(ctx context.Context, req domain.AiFoodEntryRequest, userID string) (domain.FoodEntryResponse, domain.GateResult, error) {
	entryDate, err := utils.ParseCivilDate(req.EntryDate)
	if err != nil {
		return domain.FoodEntryResponse{}, domain.Allowed, domain.ErrInvalidEntryDate
	}

	gate, err := s.planService.EnforceFoodEntryLimit(ctx, userID, entryDate)
	if err != nil {
		return domain.FoodEntryResponse{}, domain.Allowed, err
	}
	if !gate.OK {
		return domain.FoodEntryResponse{}, gate, nil
	}

	gate, err = s.planService.EnforceAiActionLimit(ctx, userID, entryDate, domain.AiActionExtractText)
	if err != nil {
		return domain.FoodEntryResponse{}, domain.Allowed, err
	}
	if !gate.OK {
		return domain.FoodEntryResponse{}, gate, nil
	}

	extraction, err := s.extractor.ExtractNutrition(ctx, req.Description)
	if err != nil {
		log.Errorf("nutrition extraction failed for user %s: %v", userID, err)
		return domain.FoodEntryResponse{}, domain.Allowed, domain.ErrExtractionFailed
	}

	description := extraction.Description
	if description == "" {
		description = req.Description
	}
	entry := &entities.FoodEntry{
		ID:                   uuid.New(),
		UserID:               userID,
		EntryDate:            entryDate,
		TakenAt:              time.Now(),
		Description:          description,
		Calories:             extraction.Calories,
		ProteinG:             extraction.ProteinG,
		CarbsG:               extraction.CarbsG,
		FatG:                 extraction.FatG,
		ExtractionSource:     extractionSourceAiText,
		ExtractionConfidence: extraction.Confidence,
		Estimated:            extraction.Estimated,
		ExtractionNotes:      extraction.Notes,
	}
	if err := s.foodRepository.AddEntry(ctx, entry); err != nil {
		return domain.FoodEntryResponse{}, domain.Allowed, err
	}

	return toEntryResponse(entry), domain.Allowed, nil
}

func (s *foodService) GetEntries(ctx context.Context, userID string, date string) ([]domain.FoodEntryResponse, domain.GateResult, error) {
	entryDate, err := utils.ParseCivilDate(date)
	if err != nil {
		return nil, domain.Allowed, domain.ErrInvalidEntryDate
	}

	gate, err := s.planService.EnforceHistoryAccess(ctx, userID, entryDate)
	if err != nil {
		return nil, domain.Allowed, err
	}
	if !gate.OK {
		return nil, gate, nil
	}

	entries, err := s.foodRepository.GetEntriesByDate(ctx, userID, entryDate)
	if err != nil {
		return nil, domain.Allowed, err
	}

	result := make([]domain.FoodEntryResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, toEntryResponse(entry))
	}
	return result, domain.Allowed, nil
}

func (s *foodService) GetDayTotals(ctx context.Context, userID string, date string) (domain.DayTotalsResponse, domain.GateResult, error) {
	entries, gate, err := s.GetEntries(ctx, userID, date)
	if err != nil || !gate.OK {
		return domain.DayTotalsResponse{}, gate, err
	}

	totals := domain.DayTotalsResponse{EntryDate: date, EntryCount: len(entries)}
	for _, entry := range entries {
		totals.TotalCalories += entry.Calories
		if entry.ProteinG != nil {
			totals.TotalProteinG += *entry.ProteinG
		}
		if entry.CarbsG != nil {
			totals.TotalCarbsG += *entry.CarbsG
		}
		if entry.FatG != nil {
			totals.TotalFatG += *entry.FatG
		}
	}
	return totals, domain.Allowed, nil
}

func (s *foodService) DeleteEntry(ctx context.Context, id string, userID string) error {
	entry, err := s.foodRepository.GetEntryByID(ctx, id)
	if err != nil {
		return domain.ErrEntryNotFound
	}
	if entry.UserID != userID {
		return domain.ErrNotAllowed
	}
	return s.foodRepository.DeleteEntry(ctx, id)
}

// ExportEntries writes the user's full history as CSV to S3. Premium only.
func (s *foodService) ExportEntries(ctx context.Context, userID string) (domain.ExportResponse, error) {
	ent, err := s.planService.GetEntitlements(ctx, userID)
	if err != nil {
		return domain.ExportResponse{}, err
	}
	if !ent.ExportEnabled {
		return domain.ExportResponse{}, domain.ErrExportNotPremium
	}

	entries, err := s.foodRepository.GetAllEntries(ctx, userID)
	if err != nil {
		return domain.ExportResponse{}, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"entry_date", "taken_at", "description", "calories", "protein_g", "carbs_g", "fat_g", "source", "estimated"})
	for _, entry := range entries {
		_ = w.Write([]string{
			utils.FormatCivilDate(entry.EntryDate),
			entry.TakenAt.Format(time.RFC3339),
			entry.Description,
			strconv.Itoa(entry.Calories),
			formatOptional(entry.ProteinG),
			formatOptional(entry.CarbsG),
			formatOptional(entry.FatG),
			entry.ExtractionSource,
			strconv.FormatBool(entry.Estimated),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return domain.ExportResponse{}, err
	}

	key := fmt.Sprintf("exports/%s/%d.csv", userID, time.Now().Unix())
	url, err := s.s3.UploadBytes(ctx, key, "text/csv", buf.Bytes())
	if err != nil {
		return domain.ExportResponse{}, err
	}

	return domain.ExportResponse{URL: url, Entries: len(entries)}, nil
}

// RunLifecycle archives entries past the retention window, then prunes the
// archive oldest-first when it exceeds the row budget.
func (s *foodService) RunLifecycle(ctx context.Context) error {
	lifecycle := utils.GetLifecycleConfig()
	loc := utils.CivilLocation()
	cutoff := utils.CivilToday(loc).AddDate(0, 0, -lifecycle.ArchiveAfterDays)

	moved, err := s.foodRepository.ArchiveOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	if moved > 0 {
		log.Infof("archived %d food entries older than %s", moved, utils.FormatCivilDate(cutoff))
	}

	count, err := s.foodRepository.CountArchive(ctx)
	if err != nil {
		return err
	}
	if count > lifecycle.ArchiveMaxRows {
		pruned, err := s.foodRepository.PruneArchiveOldest(ctx, count-lifecycle.ArchiveMaxRows)
		if err != nil {
			return err
		}
		log.Infof("pruned %d archived food entries", pruned)
	}
	return nil
}

func toEntryResponse(entry *entities.FoodEntry) domain.FoodEntryResponse {
	return domain.FoodEntryResponse{
		ID:          entry.ID.String(),
		EntryDate:   utils.FormatCivilDate(entry.EntryDate),
		TakenAt:     entry.TakenAt,
		Description: entry.Description,
		Calories:    entry.Calories,
		ProteinG:    entry.ProteinG,
		CarbsG:      entry.CarbsG,
		FatG:        entry.FatG,
		Source:      entry.ExtractionSource,
		Confidence:  entry.ExtractionConfidence,
		Estimated:   entry.Estimated,
		Notes:       entry.ExtractionNotes,
	}
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}
