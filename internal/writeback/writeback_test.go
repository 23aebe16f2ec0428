package writeback

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fjacquet/budget-dashboard/internal/logging"
	"fjacquet/budget-dashboard/internal/models"

	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayload_Encode(t *testing.T) {
	rec := &models.BillRecord{ID: "b1", Name: "Rent", Amount: decimal.NewFromInt(1200), Status: "due"}

	body, err := Payload{CollectionName: models.KindBills, Record: rec}.Encode()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "bills", decoded["collectionName"])
	assert.NotContains(t, decoded, "_deleted")
	assert.Equal(t, "Rent", decoded["record"].(map[string]interface{})["name"])

	body, err = Payload{CollectionName: models.KindBills, Record: rec, Deleted: true}.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(body), `"_deleted":true`)
}

func TestHTTPSink(t *testing.T) {
	var got []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		got, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL, srv.Client())
	err := sink.Send(context.Background(), Payload{
		CollectionName: models.KindCategories,
		Record:         &models.CategoryRecord{ID: "c1", Name: "Travel", Type: models.CategoryExpense},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"collectionName":"categories","record":{"id":"c1","name":"Travel","type":"Expense"}}`, string(got))
}

func TestHTTPSink_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewHTTPSink(srv.URL, nil).Send(context.Background(), Payload{
		CollectionName: models.KindIncome,
		Record:         &models.IncomeRecord{ID: "i1"},
	})
	assert.Error(t, err)
}

type fakePublisher struct {
	exchange, key string
	msg           amqp091.Publishing
	err           error
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func TestAMQPSink_Send(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewAMQPSinkWithPublisher(pub, "budget", "budget.changes")

	err := sink.Send(context.Background(), Payload{
		CollectionName: models.KindIncome,
		Record:         &models.IncomeRecord{ID: "i1", Source: "Gift"},
		Deleted:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, "budget", pub.exchange)
	assert.Equal(t, "budget.changes", pub.key)
	assert.Equal(t, amqp091.Persistent, pub.msg.DeliveryMode)
	assert.Equal(t, "income", pub.msg.Type)
	assert.Contains(t, string(pub.msg.Body), `"_deleted":true`)
	assert.NoError(t, sink.Close())
}

type failingSink struct{ calls int }

func (f *failingSink) Send(ctx context.Context, _ Payload) error {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("missing deadline")
	}
	return errors.New("endpoint down")
}

func (f *failingSink) Close() error { return nil }

func TestDispatcher_LogsFailures(t *testing.T) {
	logger := logging.NewMockLogger()
	sink := &failingSink{}
	d := NewDispatcher(sink, time.Second, logger)

	d.RecordChanged(context.Background(), models.KindBills, &models.BillRecord{ID: "b1"}, false)

	assert.Equal(t, 1, sink.calls)
	warns := logger.GetEntriesByLevel("WARN")
	require.Len(t, warns, 1)
	assert.Equal(t, "Writeback failed", warns[0].Message)
	assert.EqualError(t, warns[0].Error, "endpoint down")
}
