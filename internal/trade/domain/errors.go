package domain

import (
	"errors"
	"fmt"
)

// ErrorKind 领域错误分类的封闭枚举，接口层据此映射 HTTP 状态码
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindValidation        ErrorKind = "validation"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindAlreadyFinal      ErrorKind = "already_final"
	KindAuthorization     ErrorKind = "authorization"
	KindNoOp              ErrorKind = "no_op"
	KindInternal          ErrorKind = "internal"
)

// 稳定错误码，跨版本保持不变
const (
	CodeTradeNotFound          = "TNF01"
	CodeSnapshotNotFound       = "TNF02"
	CodeInvalidTransition      = "TST02"
	CodeAlreadyFinal           = "TST03"
	CodeMustBeRequester        = "T0001"
	CodeRequesterFirstAppr     = "T0002"
	CodeNoOpUpdate             = "TUP01"
	CodeUnparsableField        = "TVD00"
	CodeNegativeAmount         = "TVD01"
	CodeZeroAmount             = "TVD02"
	CodeEmptyUnderlying        = "TVD03"
	CodeNotionalNotInUnder     = "TVD04"
	CodeTradeDateAfterValue    = "TVD05"
	CodeValueDateAfterDelivery = "TVD06"
	CodeInternal               = "TIN01"
)

// DomainError 领域错误，构造后不可变；上下文字段按构造器填充
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string

	TradeID   TradeID
	UserID    string
	FromState TradeState
	ToState   TradeState
	Version   int
	Field     string
}

// Error 实现 error 接口
func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is 支持按 Code 匹配哨兵用法
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// AsDomainError 提取领域错误，非领域错误时返回 nil
func AsDomainError(err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return nil
}

// IsKind 判断错误是否属于给定分类
func IsKind(err error, kind ErrorKind) bool {
	if de := AsDomainError(err); de != nil {
		return de.Kind == kind
	}
	return false
}

// NewTradeNotFound 交易不存在
func NewTradeNotFound(id TradeID) *DomainError {
	return &DomainError{
		Kind:    KindNotFound,
		Code:    CodeTradeNotFound,
		Message: fmt.Sprintf("trade %d not found", id),
		TradeID: id,
	}
}

// NewSnapshotNotFound 历史快照不存在
func NewSnapshotNotFound(id TradeID, version int) *DomainError {
	return &DomainError{
		Kind:    KindNotFound,
		Code:    CodeSnapshotNotFound,
		Message: fmt.Sprintf("snapshot v%d of trade %d not found", version, id),
		TradeID: id,
		Version: version,
	}
}

// NewInvalidTransition 请求的动作在当前状态下不合法
func NewInvalidTransition(id TradeID, from, to TradeState) *DomainError {
	return &DomainError{
		Kind:      KindInvalidTransition,
		Code:      CodeInvalidTransition,
		Message:   fmt.Sprintf("invalid state transition %s -> %s", from, to),
		TradeID:   id,
		FromState: from,
		ToState:   to,
	}
}

// NewActionNotAllowed 动作在当前状态下无对应迁移
func NewActionNotAllowed(id TradeID, action TradeAction, from TradeState) *DomainError {
	return &DomainError{
		Kind:      KindInvalidTransition,
		Code:      CodeInvalidTransition,
		Message:   fmt.Sprintf("action %s is not allowed in state %s", action, from),
		TradeID:   id,
		FromState: from,
	}
}

// NewAlreadyFinal 交易已处于终态
func NewAlreadyFinal(id TradeID, state TradeState) *DomainError {
	return &DomainError{
		Kind:      KindAlreadyFinal,
		Code:      CodeAlreadyFinal,
		Message:   fmt.Sprintf("trade is already finalized in state %s", state),
		TradeID:   id,
		FromState: state,
	}
}

// NewMustBeRequester 复审批只允许原始发起人执行
func NewMustBeRequester(id TradeID, userID string) *DomainError {
	return &DomainError{
		Kind:    KindAuthorization,
		Code:    CodeMustBeRequester,
		Message: "user for re-approvals must be original requester",
		TradeID: id,
		UserID:  userID,
	}
}

// NewRequesterCannotFirstApprove 首次审批不允许原始发起人执行
func NewRequesterCannotFirstApprove(id TradeID, userID string) *DomainError {
	return &DomainError{
		Kind:    KindAuthorization,
		Code:    CodeRequesterFirstAppr,
		Message: "original requester cannot perform the first approval",
		TradeID: id,
		UserID:  userID,
	}
}

// NewNoOpUpdate 修改内容与当前明细完全一致
func NewNoOpUpdate(id TradeID) *DomainError {
	return &DomainError{
		Kind:    KindNoOp,
		Code:    CodeNoOpUpdate,
		Message: "update contains no changes",
		TradeID: id,
	}
}

// NewValidation 交易明细校验失败
func NewValidation(code, field, message string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    code,
		Message: message,
		Field:   field,
	}
}

// NewInternal 不应出现的内部不变量破坏
func NewInternal(message string) *DomainError {
	return &DomainError{
		Kind:    KindInternal,
		Code:    CodeInternal,
		Message: message,
	}
}
