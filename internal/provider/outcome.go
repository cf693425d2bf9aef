package provider

import "fmt"

// Kind 单次 provider 调用的结果类别
type Kind int

const (
	// KindSuccess 拿到了可用数据
	KindSuccess Kind = iota
	// KindMiss 请求成功但数据不可用（结构不符、没有该 ID）
	KindMiss
	// KindUnreachable 网络错误、非 2xx 或无法解析的响应
	KindUnreachable
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindMiss:
		return "miss"
	case KindUnreachable:
		return "unreachable"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome 是 provider 调用的标签化结果：Success(Value) | Miss | Unreachable(Err)
// 调用方用 switch o.Kind 穷举处理，不再靠探测字段判断谁"真正回答了"
type Outcome[T any] struct {
	Kind  Kind
	Value T
	// Err 对 Unreachable 是失败原因；对 Miss 是可选的说明
	Err error
}

// Success 成功
func Success[T any](v T) Outcome[T] {
	return Outcome[T]{Kind: KindSuccess, Value: v}
}

// Miss 数据不可用
func Miss[T any](reason error) Outcome[T] {
	return Outcome[T]{Kind: KindMiss, Err: reason}
}

// Unreachable 上游不可达
func Unreachable[T any](err error) Outcome[T] {
	return Outcome[T]{Kind: KindUnreachable, Err: err}
}

// Failed 是否应在 sourceFailed 中标记为 true
func (o Outcome[T]) Failed() bool {
	return o.Kind == KindUnreachable
}

// then 在成功时继续转换，其它结果原样透传
func then[A, B any](o Outcome[A], f func(A) Outcome[B]) Outcome[B] {
	switch o.Kind {
	case KindSuccess:
		return f(o.Value)
	case KindMiss:
		return Miss[B](o.Err)
	default:
		return Unreachable[B](o.Err)
	}
}
