// Package http 提供交易生命周期服务的 HTTP 接口层
package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/tradelifecycle/internal/trade/application"
	"github.com/wyfcoding/tradelifecycle/internal/trade/domain"
	"github.com/wyfcoding/tradelifecycle/pkg/logger"
	"github.com/wyfcoding/tradelifecycle/pkg/metrics"
	"github.com/wyfcoding/tradelifecycle/pkg/response"
)

// HTTP 处理器
// 负责处理交易生命周期相关的 HTTP 请求
type TradeHandler struct {
	app     *application.TradeService // 交易应用服务
	metrics *metrics.Metrics          // 指标，可为 nil
}

// 创建 HTTP 处理器实例
// app: 注入的交易应用服务
func NewTradeHandler(app *application.TradeService, m *metrics.Metrics) *TradeHandler {
	return &TradeHandler{app: app, metrics: m}
}

// 注册路由
// 将处理器方法绑定到 Gin 路由引擎
func (h *TradeHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/trades")
	{
		api.POST("", h.CreateTrade)
		api.GET("", h.ListTrades)
		api.GET("/:id", h.GetTrade)
		api.GET("/:id/status", h.GetStatus)
		api.GET("/:id/history", h.GetHistory)
		api.GET("/:id/diff", h.DiffTrade)
		api.PUT("/:id", h.UpdateTrade)
		api.POST("/:id/submit", h.SubmitTrade)
		api.POST("/:id/approve", h.ApproveTrade)
		api.POST("/:id/cancel", h.CancelTrade)
		api.POST("/:id/execute", h.SendToExecute)
		api.POST("/:id/book", h.BookTrade)
	}
}

// createTradeRequest 创建交易请求体
type createTradeRequest struct {
	UserID  string                        `json:"user_id" binding:"required"`
	Details application.TradeDetailsInput `json:"details" binding:"required"`
}

// updateTradeRequest 修改交易请求体
type updateTradeRequest struct {
	UserID  string                        `json:"user_id" binding:"required"`
	Details application.TradeDetailsInput `json:"details" binding:"required"`
}

// actionRequest 生命周期动作请求体
type actionRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// CreateTrade 创建交易
func (h *TradeHandler) CreateTrade(c *gin.Context) {
	var req createTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	start := time.Now()
	tradeID, err := h.app.CreateTrade(c.Request.Context(), application.CreateTradeCommand{
		UserID:  req.UserID,
		Details: req.Details,
	})
	h.record("create", start, err)
	if err != nil {
		h.renderError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.TradesCreatedTotal.Inc()
		h.metrics.TradesActive.Inc()
	}

	response.Success(c, gin.H{"trade_id": strconv.FormatUint(uint64(tradeID), 10)})
}

// GetTrade 获取交易当前明细
func (h *TradeHandler) GetTrade(c *gin.Context) {
	id, ok := h.tradeID(c)
	if !ok {
		return
	}

	details, err := h.app.GetDetails(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, details)
}

// GetStatus 获取交易当前状态
func (h *TradeHandler) GetStatus(c *gin.Context) {
	id, ok := h.tradeID(c)
	if !ok {
		return
	}

	status, err := h.app.GetStatus(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, gin.H{"status": status})
}

// GetHistory 获取交易的完整快照历史
func (h *TradeHandler) GetHistory(c *gin.Context) {
	id, ok := h.tradeID(c)
	if !ok {
		return
	}

	history, err := h.app.GetHistory(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, history)
}

// ListTrades 列出全部交易 ID
func (h *TradeHandler) ListTrades(c *gin.Context) {
	sorted := c.DefaultQuery("sorted", "true") == "true"

	ids, err := h.app.ListTradeIDs(c.Request.Context(), sorted)
	if err != nil {
		h.renderError(c, err)
		return
	}

	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.FormatUint(uint64(id), 10)
	}
	response.Success(c, gin.H{"trade_ids": out, "total": len(out)})
}

// DiffTrade 比较同一交易的两个历史快照
func (h *TradeHandler) DiffTrade(c *gin.Context) {
	id, ok := h.tradeID(c)
	if !ok {
		return
	}

	fromVersion, err := strconv.Atoi(c.Query("from"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid from version", "")
		return
	}
	toVersion, err := strconv.Atoi(c.Query("to"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid to version", "")
		return
	}

	diff, err := h.app.Diff(c.Request.Context(), id, fromVersion, toVersion)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, diff)
}

// UpdateTrade 修改交易明细
func (h *TradeHandler) UpdateTrade(c *gin.Context) {
	id, ok := h.tradeID(c)
	if !ok {
		return
	}

	var req updateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	start := time.Now()
	err := h.app.Update(c.Request.Context(), application.UpdateTradeCommand{
		UserID:  req.UserID,
		TradeID: uint64(id),
		Details: req.Details,
	})
	h.record("update", start, err)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, nil)
}

// SubmitTrade 提交审批
func (h *TradeHandler) SubmitTrade(c *gin.Context) {
	h.action(c, "submit", h.app.Submit)
}

// ApproveTrade 审批交易
func (h *TradeHandler) ApproveTrade(c *gin.Context) {
	h.action(c, "approve", h.app.Approve)
}

// CancelTrade 撤销交易
func (h *TradeHandler) CancelTrade(c *gin.Context) {
	h.action(c, "cancel", h.app.Cancel)
}

// SendToExecute 发送对手方执行
func (h *TradeHandler) SendToExecute(c *gin.Context) {
	h.action(c, "execute", h.app.SendToExecute)
}

// BookTrade 确认执行并落账
func (h *TradeHandler) BookTrade(c *gin.Context) {
	h.action(c, "book", h.app.Book)
}

// action 生命周期动作的统一处理流程
func (h *TradeHandler) action(c *gin.Context, name string, fn func(ctx context.Context, cmd application.TradeActionCommand) error) {
	id, ok := h.tradeID(c)
	if !ok {
		return
	}

	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	start := time.Now()
	err := fn(c.Request.Context(), application.TradeActionCommand{
		UserID:  req.UserID,
		TradeID: uint64(id),
	})
	h.record(name, start, err)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, nil)
}

// tradeID 解析路径参数中的交易 ID
func (h *TradeHandler) tradeID(c *gin.Context) (domain.TradeID, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid trade id", "")
		return 0, false
	}
	return domain.TradeID(id), true
}

// record 记录一次操作的指标
func (h *TradeHandler) record(action string, start time.Time, err error) {
	if h.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	h.metrics.TradeOperationsTotal.WithLabelValues(action, outcome).Inc()
	h.metrics.TradeOperationDuration.Observe(time.Since(start).Seconds())
}

// renderError 将领域错误映射为 HTTP 状态码
func (h *TradeHandler) renderError(c *gin.Context, err error) {
	domainErr := domain.AsDomainError(err)
	if domainErr == nil {
		logger.Error(c.Request.Context(), "Unexpected error", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "internal error", domain.CodeInternal)
		return
	}

	status := http.StatusInternalServerError
	switch domainErr.Kind {
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindValidation, domain.KindNoOp:
		status = http.StatusBadRequest
	case domain.KindInvalidTransition, domain.KindAlreadyFinal:
		status = http.StatusConflict
	case domain.KindAuthorization:
		status = http.StatusForbidden
	}

	response.ErrorWithStatus(c, status, domainErr.Message, domainErr.Code)
}
