package processor

import "errors"

// 校验失败的错误类别。全部为终止性错误：命中即放弃整个 Process 调用，
// 宿主可用 errors.Is 按类别判定。
var (
	ErrMissingAccount           = errors.New("missing required account")
	ErrMissingRequiredSignature = errors.New("missing required signature")
	ErrAccountNonWritable       = errors.New("account is non writable")
)

// DelegatedCallError 表示被委托的外部调用失败。
// 底层原因不做解释、不做重试，原样携带给宿主（Unwrap 可取出）。
type DelegatedCallError struct {
	Err error
}

func (e *DelegatedCallError) Error() string {
	return "delegated call failed: " + e.Err.Error()
}

func (e *DelegatedCallError) Unwrap() error {
	return e.Err
}
