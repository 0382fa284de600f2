package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartItem struct {
	ItemID    primitive.ObjectID `json:"itemId" bson:"item_id"`
	Name      string             `json:"name" bson:"name"`
	Price     float64            `json:"price" bson:"price"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	ItemTotal float64            `json:"itemTotal" bson:"item_total"`
	Image     string             `json:"image,omitempty" bson:"image,omitempty"`
}

// Cart is keyed by (UserID, RestaurantID). Version increases on every write.
type Cart struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID       primitive.ObjectID `json:"userId" bson:"user_id"`
	RestaurantID primitive.ObjectID `json:"restaurantId" bson:"restaurant_id"`
	Items        []CartItem         `json:"items" bson:"items"`
	Subtotal     float64            `json:"subtotal" bson:"subtotal"`
	Total        float64            `json:"total" bson:"total"`
	Version      int64              `json:"version" bson:"version"`
	CreatedAt    time.Time          `json:"createdAt,omitempty" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updatedAt,omitempty" bson:"updated_at"`
}

// NewCart returns the empty cart shape for a pair. It is not persisted.
func NewCart(userID, restaurantID primitive.ObjectID) *Cart {
	return &Cart{
		UserID:       userID,
		RestaurantID: restaurantID,
		Items:        []CartItem{},
	}
}

// AddItem appends line or adds its quantity to an existing line for the
// same item, refreshing name and price.
func (c *Cart) AddItem(line CartItem) {
	for i := range c.Items {
		if c.Items[i].ItemID == line.ItemID {
			c.Items[i].Quantity += line.Quantity
			c.Items[i].Price = line.Price
			c.Items[i].Name = line.Name
			if line.Image != "" {
				c.Items[i].Image = line.Image
			}
			c.Recalculate()
			return
		}
	}
	c.Items = append(c.Items, line)
	c.Recalculate()
}

// SetQuantity overwrites a line's quantity; qty <= 0 drops the line. A
// positive qty for an item not in the cart returns ErrCartItemNotFound.
// It reports whether the cart changed.
func (c *Cart) SetQuantity(itemID primitive.ObjectID, qty int) (bool, error) {
	for i := range c.Items {
		if c.Items[i].ItemID != itemID {
			continue
		}
		if qty <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		} else {
			c.Items[i].Quantity = qty
		}
		c.Recalculate()
		return true, nil
	}

	if qty <= 0 {
		return false, nil
	}
	return false, ErrCartItemNotFound
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.Recalculate()
}

// Recalculate derives every line total and the cart totals.
func (c *Cart) Recalculate() {
	subtotal := decimal.Zero
	for i := range c.Items {
		line := decimal.NewFromFloat(c.Items[i].Price).Mul(decimal.NewFromInt(int64(c.Items[i].Quantity))).Round(2)
		c.Items[i].ItemTotal = line.InexactFloat64()
		subtotal = subtotal.Add(line)
	}
	c.Subtotal = subtotal.Round(2).InexactFloat64()
	c.Total = c.Subtotal
}

func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
