package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/internal/domain"
	"github.com/Beka01247/food-ordering/internal/queue"
)

// ImportProcessor runs one spreadsheet import.
type ImportProcessor interface {
	ProcessImportTask(ctx context.Context, taskID string) error
}

type CatalogImportWorker struct {
	importer ImportProcessor
	broker   queue.Broker
	logger   *zap.SugaredLogger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewCatalogImportWorker(
	importer ImportProcessor,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *CatalogImportWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &CatalogImportWorker{
		importer: importer,
		broker:   broker,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (w *CatalogImportWorker) Start() error {
	w.logger.Info("starting catalog import worker")

	return w.broker.Subscribe(w.ctx, queue.QueueCatalogImport, w.handleMessage)
}

func (w *CatalogImportWorker) Stop() {
	w.logger.Info("stopping catalog import worker")
	w.cancel()
}

func (w *CatalogImportWorker) handleMessage(ctx context.Context, message []byte) error {
	var msg domain.CatalogImportMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		w.logger.Errorw("failed to unmarshal message", "error", err)
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	if msg.TaskID == "" {
		w.logger.Errorw("import message without task id", "spreadsheet_id", msg.SpreadsheetID)
		return fmt.Errorf("missing task ID")
	}

	w.logger.Infow("processing catalog import message", "task_id", msg.TaskID)

	if err := w.importer.ProcessImportTask(ctx, msg.TaskID); err != nil {
		w.logger.Errorw("failed to process import task", "task_id", msg.TaskID, "error", err)
		return err
	}

	return nil
}
