package gate

// Action describes the kind of operation a user wants to perform.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	// Domain actions beyond CRUD.
	ActionApply    Action = "apply"
	ActionConfirm  Action = "confirm"
	ActionComplete Action = "complete"
	ActionPay      Action = "pay"
	ActionSubmit   Action = "submit"
)
