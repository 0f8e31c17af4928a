package actionstore

import "strconv"

// Action is the discriminator carried in every mutating request body.
type Action string

// Actions understood by the store. A request without an action is a list.
const (
	ActionList   Action = ""
	ActionAdd    Action = "add"
	ActionDelete Action = "delete"
	ActionUpdate Action = "update"
)

// Request is one of List, Add, Delete or Update.
type Request interface {
	Action() Action
	wire() any
}

// List fetches the whole collection.
type List struct{}

// Add creates a task that is not complete.
type Add struct {
	Task string
}

// Delete removes a task.
type Delete struct {
	Task string
}

// Update sets the completion state of a task.
type Update struct {
	Task     string
	Complete bool
}

func (List) Action() Action   { return ActionList }
func (Add) Action() Action    { return ActionAdd }
func (Delete) Action() Action { return ActionDelete }
func (Update) Action() Action { return ActionUpdate }

// wireRequest is the shape shared by every mutating request. All three keys
// are always present, even for a task with an empty name. complete travels
// as the text "true"/"false", never as a JSON boolean.
type wireRequest struct {
	Task     string `json:"task"`
	Complete string `json:"complete"`
	Action   Action `json:"action"`
}

// A list is the empty object.
func (List) wire() any { return struct{}{} }

func (r Add) wire() any {
	return wireRequest{Task: r.Task, Complete: "false", Action: ActionAdd}
}

// The store ignores complete on delete; it is sent as a fixed placeholder.
func (r Delete) wire() any {
	return wireRequest{Task: r.Task, Complete: "true", Action: ActionDelete}
}

func (r Update) wire() any {
	return wireRequest{Task: r.Task, Complete: strconv.FormatBool(r.Complete), Action: ActionUpdate}
}

// Encode returns the wire body for req.
func Encode(req Request) any {
	return req.wire()
}
