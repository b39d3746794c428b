package flow

import (
	"fmt"

	"github.com/fieldline/labportal/internal/entity"
	"github.com/fieldline/labportal/internal/model"
)

// SimulationFlowName identifies the simulation request flow; it is also
// the flow's key in the price catalog and its draft key prefix.
const SimulationFlowName = "simulation"

// simulationFlowVersion tags the form-state schema for draft resume.
// Bump when fields are added, renamed or retyped.
const simulationFlowVersion = 2

// SimulationFlow builds the simulation request flow: four steps from
// product details to review, priced from the catalog.
//
// Form-state fields: eutName, modelNo, description, category,
// testCategories (list), reports (list), additionalSimulations (list),
// documents (list), projectId (optional, seeded by the caller).
func SimulationFlow(catalog Catalog) *Definition {
	return &Definition{
		Name:    SimulationFlowName,
		Version: simulationFlowVersion,
		Steps: []Step{
			{
				Name:     "ProductDetails",
				Validate: requireFields("ProductDetails", "eutName", "modelNo"),
			},
			{
				Name: "Simulations",
				Validate: all(
					requireSelection("Simulations", "testCategories", "no test category selected"),
					requireSelection("Simulations", "reports", "no report attached"),
				),
			},
			{
				Name:     "Documents",
				Validate: requireSelection("Documents", "documents", "no document attached"),
			},
			{Name: "Review"},
		},
		Defaults: State{
			"eutName":               "",
			"modelNo":               "",
			"description":           "",
			"category":              "",
			"testCategories":        []string{},
			"reports":               []string{},
			"additionalSimulations": []string{},
			"documents":             []string{},
		},
		Price: func(s State) float64 {
			return catalog.Price(SimulationFlowName, s)
		},
		Submit: func(tx *entity.Tx, s State, total float64) (Submission, error) {
			product := tx.CreateProduct(model.Product{
				Name:        s.Str("eutName"),
				Service:     "EMC Simulation",
				Description: s.Str("description"),
				Category:    s.Str("category"),
			})
			order := tx.CreateOrder(model.Order{
				ProductID:   product.ID,
				ProductName: product.Name,
				Service:     product.Service,
				Status:      model.OrderAwaiting,
				Total:       total,
			})
			message := tx.CreateMessage(model.Message{
				From:    "Simulation Team",
				Subject: "Simulation request received",
				Body: fmt.Sprintf("Your simulation request for %s (model %s) has been received. Order %s is awaiting scheduling.",
					product.Name, s.Str("modelNo"), order.ID),
				Type: model.MessageNotification,
			})
			return Submission{Product: product, Order: order, Message: message}, nil
		},
	}
}
