package enum

// NoticeKind is the style of a banner shown to the operator
type NoticeKind string

const (
	NoticeKindSuccess NoticeKind = "success"
	NoticeKindError   NoticeKind = "error"
)
