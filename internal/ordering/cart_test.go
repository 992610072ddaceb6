package ordering

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

var (
	latteID = uuid.MustParse("550e8400-e29b-41d4-a716-446655440001")
	mochaID = uuid.MustParse("550e8400-e29b-41d4-a716-446655440002")
)

func latteLine(qty int) CartLine {
	return CartLine{
		ItemID:         latteID,
		Name:           "Latte",
		UnitPrice:      4.30,
		Size:           "medium",
		Temperature:    "hot",
		Customizations: map[string]string{"milk": "oat"},
		Quantity:       qty,
	}
}

func TestCartAddItemMergesIdenticalSelections(t *testing.T) {
	var cart Cart

	cart.AddItem(latteLine(1))
	cart.AddItem(latteLine(2))

	if len(cart.Lines) != 1 {
		t.Fatalf("len(Lines) = %d, want 1", len(cart.Lines))
	}
	if cart.Lines[0].Quantity != 3 {
		t.Errorf("Quantity = %d, want 3", cart.Lines[0].Quantity)
	}
}

func TestCartAddItemKeepsDistinctSelections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(line *CartLine)
	}{
		{
			name:   "differentSize",
			mutate: func(line *CartLine) { line.Size = "large" },
		},
		{
			name:   "differentTemperature",
			mutate: func(line *CartLine) { line.Temperature = "iced" },
		},
		{
			name:   "differentCustomization",
			mutate: func(line *CartLine) { line.Customizations = map[string]string{"milk": "soy"} },
		},
		{
			name:   "extraCustomization",
			mutate: func(line *CartLine) { line.Customizations = map[string]string{"milk": "oat", "syrup": "vanilla"} },
		},
		{
			name:   "differentItem",
			mutate: func(line *CartLine) { line.ItemID = mochaID },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cart Cart
			cart.AddItem(latteLine(1))

			other := latteLine(1)
			tt.mutate(&other)
			cart.AddItem(other)

			if len(cart.Lines) != 2 {
				t.Errorf("len(Lines) = %d, want 2", len(cart.Lines))
			}
		})
	}
}

func TestCartAddItemClampsQuantity(t *testing.T) {
	var cart Cart
	cart.AddItem(latteLine(0))

	if cart.Lines[0].Quantity != 1 {
		t.Errorf("Quantity = %d, want 1", cart.Lines[0].Quantity)
	}
}

func TestCartRemoveItemCoarseFilter(t *testing.T) {
	var cart Cart

	oat := latteLine(1)
	soy := latteLine(1)
	soy.Customizations = map[string]string{"milk": "soy"}
	iced := latteLine(1)
	iced.Temperature = "iced"
	mocha := latteLine(1)
	mocha.ItemID = mochaID

	cart.AddItem(oat)
	cart.AddItem(soy)
	cart.AddItem(iced)
	cart.AddItem(mocha)

	// The filter ignores customizations, so both hot variants go at once.
	hot := "hot"
	cart.RemoveItem(latteID, LineFilter{Temperature: &hot})

	if len(cart.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(cart.Lines))
	}
	for _, line := range cart.Lines {
		if line.ItemID == latteID && line.Temperature == "hot" {
			t.Errorf("hot latte line survived removal: %+v", line)
		}
	}
}

func TestCartRemoveItemEmptyFilterSweepsItem(t *testing.T) {
	var cart Cart
	cart.AddItem(latteLine(1))

	iced := latteLine(1)
	iced.Temperature = "iced"
	cart.AddItem(iced)

	mocha := latteLine(1)
	mocha.ItemID = mochaID
	cart.AddItem(mocha)

	cart.RemoveItem(latteID, LineFilter{})

	if len(cart.Lines) != 1 {
		t.Fatalf("len(Lines) = %d, want 1", len(cart.Lines))
	}
	if cart.Lines[0].ItemID != mochaID {
		t.Errorf("surviving line = %+v, want the mocha", cart.Lines[0])
	}
}

func TestCartSetQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     int
	}{
		{name: "setNormal", quantity: 4, want: 4},
		{name: "clampZero", quantity: 0, want: 1},
		{name: "clampNegative", quantity: -3, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cart Cart
			cart.AddItem(latteLine(2))

			cart.SetQuantity(latteID, tt.quantity, LineFilter{})

			if got := cart.Lines[0].Quantity; got != tt.want {
				t.Errorf("Quantity = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCartClearResetsPickupTime(t *testing.T) {
	var cart Cart
	cart.AddItem(latteLine(1))
	pickup := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	cart.PickupTime = &pickup

	cart.Clear()

	if !cart.IsEmpty() {
		t.Error("cart should be empty after Clear()")
	}
	if cart.PickupTime != nil {
		t.Error("PickupTime should be nil after Clear()")
	}
}

func TestCartTotal(t *testing.T) {
	var cart Cart
	cart.AddItem(latteLine(2)) // 2 x 4.30

	mocha := latteLine(3) // 3 x 5.10
	mocha.ItemID = mochaID
	mocha.UnitPrice = 5.10
	cart.AddItem(mocha)

	want := 2*4.30 + 3*5.10
	if got := cart.Total(); got != want {
		t.Errorf("Total() = %v, want %v", got, want)
	}
}
