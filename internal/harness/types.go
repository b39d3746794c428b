package harness

// TraceEvent is one entry in a scenario's execution trace. Kind says
// which fields are populated:
//
//   - "op": Op, Field, Value
//   - "transition": Step, Name (the step arrived at)
//   - "rejection": Step, Name, Field, Reason
//   - "submission": ProductID, OrderID, MessageID, Total
type TraceEvent struct {
	Kind      string  `json:"kind"`
	Op        string  `json:"op,omitempty"`
	Field     string  `json:"field,omitempty"`
	Value     any     `json:"value,omitempty"`
	Step      int     `json:"step,omitempty"`
	Name      string  `json:"name,omitempty"`
	Reason    string  `json:"reason,omitempty"`
	ProductID string  `json:"product_id,omitempty"`
	OrderID   string  `json:"order_id,omitempty"`
	MessageID string  `json:"message_id,omitempty"`
	Total     float64 `json:"total,omitempty"`
}

// Result is the outcome of one scenario execution.
type Result struct {
	// Pass is true when every step expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace lists every operation and state transition in order.
	Trace []TraceEvent `json:"trace"`

	// Errors lists expectation and assertion failures. Empty when Pass.
	Errors []string `json:"errors,omitempty"`

	// Price is the derived price at the end of the run (the committed
	// total when the flow submitted).
	Price float64 `json:"price"`
}

// NewResult creates a passing result to accumulate into.
func NewResult() *Result {
	return &Result{
		Pass:  true,
		Trace: []TraceEvent{},
	}
}

// AddError records a failure and marks the result failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

func (r *Result) addOp(op, field string, value any) {
	r.Trace = append(r.Trace, TraceEvent{Kind: "op", Op: op, Field: field, Value: value})
}

func (r *Result) addTransition(step int, name string) {
	r.Trace = append(r.Trace, TraceEvent{Kind: "transition", Step: step, Name: name})
}

func (r *Result) addRejection(step int, name, field, reason string) {
	r.Trace = append(r.Trace, TraceEvent{Kind: "rejection", Step: step, Name: name, Field: field, Reason: reason})
}

func (r *Result) addSubmission(productID, orderID, messageID string, total float64) {
	r.Trace = append(r.Trace, TraceEvent{
		Kind:      "submission",
		ProductID: productID,
		OrderID:   orderID,
		MessageID: messageID,
		Total:     total,
	})
}
