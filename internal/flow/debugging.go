package flow

import (
	"fmt"

	"github.com/fieldline/labportal/internal/entity"
	"github.com/fieldline/labportal/internal/model"
)

// DebuggingFlowName identifies the debugging request flow.
const DebuggingFlowName = "debugging"

// debuggingFlowVersion tags the form-state schema for draft resume.
const debuggingFlowVersion = 1

// DebuggingFlow builds the debugging request flow: three steps from
// problem details to review.
//
// Form-state fields: eutName, modelNo, issueDescription,
// diagnosticOptions (list), logs (list), projectId (optional, seeded by
// the caller).
func DebuggingFlow(catalog Catalog) *Definition {
	return &Definition{
		Name:    DebuggingFlowName,
		Version: debuggingFlowVersion,
		Steps: []Step{
			{
				Name:     "ProblemDetails",
				Validate: requireFields("ProblemDetails", "eutName", "modelNo", "issueDescription"),
			},
			{
				Name:     "Logs",
				Validate: requireSelection("Logs", "logs", "no log attached"),
			},
			{Name: "Review"},
		},
		Defaults: State{
			"eutName":           "",
			"modelNo":           "",
			"issueDescription":  "",
			"diagnosticOptions": []string{},
			"logs":              []string{},
		},
		Price: func(s State) float64 {
			return catalog.Price(DebuggingFlowName, s)
		},
		Submit: func(tx *entity.Tx, s State, total float64) (Submission, error) {
			product := tx.CreateProduct(model.Product{
				Name:        s.Str("eutName"),
				Service:     "EMC Debugging",
				Description: s.Str("issueDescription"),
			})
			order := tx.CreateOrder(model.Order{
				ProductID:   product.ID,
				ProductName: product.Name,
				Service:     product.Service,
				Status:      model.OrderAwaiting,
				Total:       total,
			})
			message := tx.CreateMessage(model.Message{
				From:    "Debugging Team",
				Subject: "Debugging request received",
				Body: fmt.Sprintf("Your debugging request for %s (model %s) has been received. Order %s is awaiting an engineer.",
					product.Name, s.Str("modelNo"), order.ID),
				Type: model.MessageNotification,
			})
			return Submission{Product: product, Order: order, Message: message}, nil
		},
	}
}
