package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/internal/domain"
	"github.com/Beka01247/food-ordering/internal/parser"
	"github.com/Beka01247/food-ordering/internal/queue"
	"github.com/Beka01247/food-ordering/internal/repo"
)

var ErrImportUnavailable = errors.New("spreadsheet import is not configured")

// MenuSheetReader reads menu rows from a spreadsheet.
type MenuSheetReader interface {
	ReadMenuItems(ctx context.Context, spreadsheetID, readRange string) ([]parser.MenuRow, error)
}

type ImportService struct {
	taskRepo repo.ImportTaskRepository
	catalog  *CatalogService
	reader   MenuSheetReader
	broker   queue.Broker
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// NewImportService wires the spreadsheet import. reader may be nil when no
// Google credentials are configured; tasks are then refused.
func NewImportService(
	taskRepo repo.ImportTaskRepository,
	catalog *CatalogService,
	reader MenuSheetReader,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *ImportService {
	return &ImportService{
		taskRepo: taskRepo,
		catalog:  catalog,
		reader:   reader,
		broker:   broker,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *ImportService) CreateImportTask(ctx context.Context, spreadsheetID, sheetRange string) (*domain.ImportTask, error) {
	if s.reader == nil {
		return nil, ErrImportUnavailable
	}

	now := s.now()
	task := &domain.ImportTask{
		Status:        domain.ImportQueued,
		SpreadsheetID: spreadsheetID,
		SheetRange:    sheetRange,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create import task: %w", err)
	}

	message := domain.CatalogImportMessage{
		TaskID:        task.ID,
		SpreadsheetID: spreadsheetID,
		SheetRange:    sheetRange,
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := s.broker.Publish(ctx, queue.QueueCatalogImport, messageBytes); err != nil {
		s.fail(ctx, task, err)
		return nil, fmt.Errorf("failed to publish message: %w", err)
	}

	s.logger.Infow("import task created", "task_id", task.ID, "spreadsheet_id", spreadsheetID)

	return task, nil
}

func (s *ImportService) GetTask(ctx context.Context, taskID string) (*domain.ImportTask, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get import task: %w", err)
	}

	return task, nil
}

// ProcessImportTask reads the sheet and upserts every row into the catalog.
// Rows failing validation are recorded on the task; the rest are imported.
func (s *ImportService) ProcessImportTask(ctx context.Context, taskID string) error {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}

	task.Status = domain.ImportProcessing
	task.UpdatedAt = s.now()
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	s.logger.Infow("processing import task", "task_id", taskID)

	rows, err := s.reader.ReadMenuItems(ctx, task.SpreadsheetID, task.SheetRange)
	if err != nil {
		s.logger.Errorw("failed to read spreadsheet", "task_id", taskID, "error", err)
		s.fail(ctx, task, err)
		return fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	items := make([]domain.MenuItem, len(rows))
	for i, row := range rows {
		items[i] = row.Item
	}

	results, err := s.catalog.Upsert(ctx, items)
	if err != nil {
		s.logger.Errorw("failed to save menu", "task_id", taskID, "error", err)
		s.fail(ctx, task, err)
		return fmt.Errorf("failed to save menu: %w", err)
	}

	task.Imported = 0
	task.Rejected = nil
	for i, rerr := range results {
		if rerr == nil {
			task.Imported++
			continue
		}
		task.Rejected = append(task.Rejected, domain.ImportRejection{
			Row:     rows[i].Row,
			Name:    rows[i].Item.Name,
			Message: rerr.Error(),
		})
	}

	task.Status = domain.ImportCompleted
	task.UpdatedAt = s.now()
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Infow("import task completed", "task_id", taskID, "imported", task.Imported, "rejected", len(task.Rejected))

	return nil
}

func (s *ImportService) fail(ctx context.Context, task *domain.ImportTask, cause error) {
	task.Status = domain.ImportFailed
	task.ErrorMessage = cause.Error()
	task.UpdatedAt = s.now()
	if err := s.taskRepo.Update(ctx, task); err != nil {
		s.logger.Errorw("failed to mark import task failed", "task_id", task.ID, "error", err)
	}
}
