package errors

import "errors"

// ErrAuditWriteFailed 审计事件写入失败：审计先行，写入失败时不得继续对账
var ErrAuditWriteFailed = errors.New("值勤审计事件写入失败")
