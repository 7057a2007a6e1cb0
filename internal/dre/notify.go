package dre

// NoticeKind identifies the action a notice reports on.
type NoticeKind string

const (
	NoticeItemAdded       NoticeKind = "item_added"
	NoticeItemDeleted     NoticeKind = "item_deleted"
	NoticeItemMoved       NoticeKind = "item_moved"
	NoticeMoveRejected    NoticeKind = "move_rejected"
	NoticeSubtotalAdded   NoticeKind = "subtotal_added"
	NoticeSubtotalDeleted NoticeKind = "subtotal_deleted"
)

// Notice is an advisory, user-facing message. Nothing in the budget depends
// on a notice being delivered.
type Notice struct {
	Kind        NoticeKind `json:"kind"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Destructive bool       `json:"destructive"`
}

// Notifier receives notices emitted by a Budget.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}
