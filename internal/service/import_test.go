package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/internal/domain"
	"github.com/Beka01247/food-ordering/internal/parser"
	"github.com/Beka01247/food-ordering/internal/queue"
	"github.com/Beka01247/food-ordering/internal/store/kvstore"
)

type fakeSheet struct {
	rows []parser.MenuRow
	err  error
}

func (f *fakeSheet) ReadMenuItems(context.Context, string, string) ([]parser.MenuRow, error) {
	return f.rows, f.err
}

func newImportService(env *testEnv, reader MenuSheetReader) *ImportService {
	logger := zap.NewNop().Sugar()
	return NewImportService(kvstore.NewImportTaskRepository(env.kv, logger), env.catalog, reader, env.broker, logger)
}

func TestImportService_CreatePublishes(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc := newImportService(env, &fakeSheet{})

	got := make(chan domain.CatalogImportMessage, 1)
	require.NoError(t, env.broker.Subscribe(ctx, queue.QueueCatalogImport, func(_ context.Context, msg []byte) error {
		var m domain.CatalogImportMessage
		if err := json.Unmarshal(msg, &m); err != nil {
			return err
		}
		got <- m
		return nil
	}))

	task, err := svc.CreateImportTask(ctx, "sheet-1", "Menu!A:E")
	require.NoError(t, err)
	assert.Equal(t, domain.ImportQueued, task.Status)

	select {
	case m := <-got:
		assert.Equal(t, task.ID, m.TaskID)
		assert.Equal(t, "Menu!A:E", m.SheetRange)
	case <-time.After(time.Second):
		t.Fatal("import message not published")
	}
}

func TestImportService_Unconfigured(t *testing.T) {
	env := newTestEnv(t)
	svc := newImportService(env, nil)

	_, err := svc.CreateImportTask(context.Background(), "sheet-1", "")
	assert.ErrorIs(t, err, ErrImportUnavailable)
}

func TestImportService_ProcessRecordsRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sheet := &fakeSheet{rows: []parser.MenuRow{
		{Row: 2, Item: domain.MenuItem{Name: "Bánh cuốn", Description: "Bánh cuốn Thanh Trì nóng hổi", Price: 40_000, Category: domain.CategoryMain, Image: "/images/menu/banh-cuon.jpg"}},
		{Row: 3, Item: domain.MenuItem{Name: "Nem", Description: "Nem rán", Price: 30_000, Category: domain.CategoryAppetizer, Image: "/images/menu/nem.jpg"}},
	}}
	svc := newImportService(env, sheet)

	task := &domain.ImportTask{Status: domain.ImportQueued, SpreadsheetID: "sheet-1"}
	require.NoError(t, svc.taskRepo.Create(ctx, task))

	require.NoError(t, svc.ProcessImportTask(ctx, task.ID))

	got, err := svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportCompleted, got.Status)
	assert.Equal(t, 1, got.Imported)
	require.Len(t, got.Rejected, 1)
	assert.Equal(t, 3, got.Rejected[0].Row)
	assert.Equal(t, menuItemMessages["Description"], got.Rejected[0].Message)

	items, err := env.catalog.Load(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, indexOfName(items, "Bánh cuốn"), 0)
	assert.Equal(t, -1, indexOfName(items, "Nem"))
}

func TestImportService_ProcessReadFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newImportService(env, &fakeSheet{err: errors.New("403 forbidden")})

	task := &domain.ImportTask{Status: domain.ImportQueued, SpreadsheetID: "sheet-1"}
	require.NoError(t, svc.taskRepo.Create(ctx, task))

	require.Error(t, svc.ProcessImportTask(ctx, task.ID))

	got, err := svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportFailed, got.Status)
	assert.Contains(t, got.ErrorMessage, "403")
}
