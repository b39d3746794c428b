package model

import "time"

// Seed data used to bootstrap a fresh store. Purely demo content; the only
// contract is that every record is well-formed and IDs line up with the
// generated sequence (the store continues numbering after them).

func seedDate(month time.Month, day int) time.Time {
	return time.Date(2024, month, day, 9, 0, 0, 0, time.UTC)
}

// SeedProducts returns the bootstrap product collection.
func SeedProducts() []Product {
	return []Product{
		{
			ID:        "BP-2024-001",
			Name:      "Smart Thermostat Gen3",
			Service:   "EMC Testing",
			Category:  "IoT",
			Progress:  100,
			Status:    ProductComplete,
			CreatedAt: seedDate(time.February, 12),
		},
		{
			ID:        "BP-2024-002",
			Name:      "Industrial Motor Controller",
			Service:   "EMC Debugging",
			Category:  "Industrial",
			Progress:  65,
			Status:    ProductTesting,
			CreatedAt: seedDate(time.April, 3),
		},
		{
			ID:        "BP-2024-003",
			Name:      "Wireless Charging Pad",
			Service:   "EMC Simulation",
			Category:  "Consumer",
			Progress:  0,
			Status:    ProductAwaiting,
			CreatedAt: seedDate(time.May, 21),
		},
	}
}

// SeedOrders returns the bootstrap order collection.
func SeedOrders() []Order {
	return []Order{
		{
			ID:          "ORD-2024-001",
			ProductID:   "BP-2024-001",
			ProductName: "Smart Thermostat Gen3",
			Service:     "EMC Testing",
			Status:      OrderCompleted,
			Total:       5200,
			CreatedAt:   seedDate(time.February, 12),
		},
		{
			ID:          "ORD-2024-002",
			ProductID:   "BP-2024-002",
			ProductName: "Industrial Motor Controller",
			Service:     "EMC Debugging",
			Status:      OrderAwaiting,
			Total:       3150,
			CreatedAt:   seedDate(time.April, 3),
		},
		{
			ID:          "ORD-2024-003",
			ProductID:   "BP-2024-003",
			ProductName: "Wireless Charging Pad",
			Service:     "EMC Simulation",
			Status:      OrderAwaiting,
			Total:       4500,
			CreatedAt:   seedDate(time.May, 21),
		},
	}
}

// SeedMessages returns the bootstrap message collection.
func SeedMessages() []Message {
	return []Message{
		{
			ID:        "MSG-2024-001",
			From:      "Lab Scheduling",
			Subject:   "Test slot confirmed",
			Body:      "Your EMC testing slot for Smart Thermostat Gen3 is confirmed for next week.",
			Timestamp: seedDate(time.February, 14),
			Read:      true,
			Type:      MessageInfo,
		},
		{
			ID:        "MSG-2024-002",
			From:      "Debugging Team",
			Subject:   "Preliminary findings available",
			Body:      "First radiated-emissions sweep for the motor controller is complete; report attached to the project.",
			Timestamp: seedDate(time.April, 18),
			Read:      false,
			Type:      MessageNotification,
		},
	}
}

// SeedDocuments returns the bootstrap document collection.
func SeedDocuments() []Document {
	return []Document{
		{
			ID:         "DOC-2024-001",
			ProductID:  "BP-2024-001",
			Title:      "EMC Test Report - Smart Thermostat Gen3",
			Type:       "report",
			UploadedAt: seedDate(time.March, 2),
			Size:       "2.4 MB",
		},
		{
			ID:         "DOC-2024-002",
			ProductID:  "BP-2024-002",
			Title:      "Schematic - Motor Controller Rev B",
			Type:       "schematic",
			UploadedAt: seedDate(time.April, 5),
			Size:       "860 KB",
		},
	}
}

// SeedProfile returns the bootstrap profile singleton.
func SeedProfile() Profile {
	return Profile{
		FullName: "Dana Whitfield",
		Emails: []Email{
			{Address: "dana.whitfield@voltaic.example", Label: "work"},
		},
		Phone:   "+1 555 0184",
		Address: "4410 Fenwick Industrial Park, Unit 12",
		Company: "Voltaic Devices",
	}
}

// SeedSettings returns the bootstrap settings singleton.
func SeedSettings() Settings {
	return Settings{
		Notifications: true,
		EmailUpdates:  true,
	}
}
