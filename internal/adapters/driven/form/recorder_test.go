package form

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/locfilter/internal/core/domain"
)

func testSnapshot() domain.DocumentSnapshot {
	return domain.DocumentSnapshot{
		DocType: domain.DocTypeSalesInvoice,
		Values:  map[string]string{"location": "L-West", "set_warehouse": "Stores - W"},
		Fields:  map[string]bool{"location": true, "set_warehouse": true, "items": true},
		Tables:  map[string][]domain.Row{"items": {{"warehouse": "Stores - W"}}},
	}
}

func TestRecorder_RecordsInOrder(t *testing.T) {
	ctx := context.Background()
	snap := testSnapshot()
	r := NewRecorder(snap)

	require.NoError(t, r.SetValue(ctx, "set_warehouse", ""))
	require.NoError(t, r.SetRowValue(ctx, "items", 0, "warehouse", ""))
	require.NoError(t, r.RefreshField(ctx, "items"))
	require.NoError(t, r.DeclareQuery(ctx, domain.QueryBinding{
		Field:   "warehouse",
		Table:   "items",
		Query:   "ns.child_table_warehouse_query",
		Filters: map[string]any{"location": "L-West"},
	}))

	actions := r.Actions()
	require.Len(t, actions, 4)
	assert.Equal(t, []string{"set_warehouse", "items[0].warehouse", "items", "items.warehouse"},
		[]string{actions[0].Target(), actions[1].Target(), actions[2].Target(), actions[3].Target()})
	assert.Equal(t, ActionDeclareQuery, actions[3].Kind)

	got := r.Snapshot()
	assert.Equal(t, "", got.Value("set_warehouse"))
	assert.Equal(t, "", got.Rows("items")[0]["warehouse"])
	assert.Equal(t, "Stores - W", snap.Value("set_warehouse"), "input snapshot untouched")

	b, ok := r.Binding("items.warehouse")
	require.True(t, ok)
	assert.Equal(t, "ns.child_table_warehouse_query", b.Query)
}

func TestRecorder_LaterBindingWins(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder(testSnapshot())

	require.NoError(t, r.DeclareQuery(ctx, domain.QueryBinding{Field: "set_warehouse", Query: "a"}))
	require.NoError(t, r.DeclareQuery(ctx, domain.EmptyBinding("", "set_warehouse")))

	b, ok := r.Binding("set_warehouse")
	require.True(t, ok)
	assert.True(t, b.ShowsNothing())
	assert.Len(t, r.Actions(), 2)
}

func TestRecorder_SetRowValueOutOfRange(t *testing.T) {
	r := NewRecorder(testSnapshot())

	err := r.SetRowValue(context.Background(), "items", 3, "warehouse", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, r.Actions())
}

func TestRecorder_ConcurrentSetValue(t *testing.T) {
	r := NewRecorder(testSnapshot())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.SetValue(context.Background(), "dispatch_address_name", "West HQ")
		}()
	}
	wg.Wait()

	assert.Len(t, r.Actions(), 10)
	assert.Equal(t, "West HQ", r.Snapshot().Value("dispatch_address_name"))
}
