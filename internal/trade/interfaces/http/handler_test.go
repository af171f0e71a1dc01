package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/tradelifecycle/internal/trade/application"
	"github.com/wyfcoding/tradelifecycle/internal/trade/infrastructure/persistence/memory"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, err := application.NewTradeService(1, memory.NewTradeStore(), nil)
	require.NoError(t, err)

	router := gin.New()
	NewTradeHandler(svc, nil).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func detailsBody() map[string]any {
	return map[string]any{
		"trading_entity":    "Acme Bank",
		"counterparty":      "Globex Corp",
		"direction":         "BUY",
		"notional_currency": "USD",
		"notional_amount":   "1000000",
		"underlying":        []string{"USD", "EUR"},
		"trade_date":        "2026-01-10",
		"value_date":        "2026-01-12",
		"delivery_date":     "2026-01-14",
	}
}

func createTradeHTTP(t *testing.T, router *gin.Engine, user string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/trades", map[string]any{
		"user_id": user,
		"details": detailsBody(),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			TradeID string `json:"trade_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.TradeID)
	return resp.Data.TradeID
}

func TestCreateAndGetTrade(t *testing.T) {
	router := newTestRouter(t)
	id := createTradeHTTP(t, router, "alice")

	w := doJSON(t, router, http.MethodGet, "/api/v1/trades/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Globex Corp")

	w = doJSON(t, router, http.MethodGet, "/api/v1/trades/"+id+"/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "DRAFT")
}

func TestLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	id := createTradeHTTP(t, router, "alice")

	steps := []struct {
		path string
		user string
	}{
		{"submit", "alice"},
		{"approve", "bob"},
		{"execute", "bob"},
		{"book", "carol"},
	}
	for _, step := range steps {
		w := doJSON(t, router, http.MethodPost,
			fmt.Sprintf("/api/v1/trades/%s/%s", id, step.path),
			map[string]any{"user_id": step.user})
		require.Equal(t, http.StatusOK, w.Code, "step %s: %s", step.path, w.Body.String())
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/trades/"+id+"/status", nil)
	assert.Contains(t, w.Body.String(), "EXECUTED")

	w = doJSON(t, router, http.MethodGet, "/api/v1/trades/"+id+"/history", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 5)
}

func TestErrorStatusMapping(t *testing.T) {
	router := newTestRouter(t)

	// 交易不存在
	w := doJSON(t, router, http.MethodGet, "/api/v1/trades/12345", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "TNF01")

	// 非法交易 ID
	w = doJSON(t, router, http.MethodGet, "/api/v1/trades/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	id := createTradeHTTP(t, router, "alice")

	// 不合法的状态迁移
	w = doJSON(t, router, http.MethodPost, "/api/v1/trades/"+id+"/book",
		map[string]any{"user_id": "alice"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "TST02")

	// 发起人自行首次审批
	w = doJSON(t, router, http.MethodPost, "/api/v1/trades/"+id+"/submit",
		map[string]any{"user_id": "alice"})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/v1/trades/"+id+"/approve",
		map[string]any{"user_id": "alice"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "T0002")

	// 无变化的修改
	w = doJSON(t, router, http.MethodPut, "/api/v1/trades/"+id,
		map[string]any{"user_id": "alice", "details": detailsBody()})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "TUP01")
}

func TestDiffOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	id := createTradeHTTP(t, router, "alice")

	updated := detailsBody()
	updated["counterparty"] = "Initech"
	w := doJSON(t, router, http.MethodPut, "/api/v1/trades/"+id,
		map[string]any{"user_id": "bob", "details": updated})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/v1/trades/"+id+"/diff?from=0&to=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "counterparty")
	assert.Contains(t, w.Body.String(), "Initech")

	// 缺失的快照版本
	w = doJSON(t, router, http.MethodGet, "/api/v1/trades/"+id+"/diff?from=0&to=9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "TNF02")

	// 缺失查询参数
	w = doJSON(t, router, http.MethodGet, "/api/v1/trades/"+id+"/diff", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTradesOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	createTradeHTTP(t, router, "alice")
	createTradeHTTP(t, router, "bob")

	w := doJSON(t, router, http.MethodGet, "/api/v1/trades", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			TradeIDs []string `json:"trade_ids"`
			Total    int      `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Total)
	assert.Len(t, resp.Data.TradeIDs, 2)
}
