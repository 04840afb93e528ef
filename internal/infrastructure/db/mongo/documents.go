package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cloudmart/accounts/internal/core/domain"
)

const usersCollection = "users"

// userDoc is the persisted shape of a user. Field names match the documents
// written by earlier versions of the service, but those stored the email as
// typed. Lookups use the normalised form, so such documents need their email
// lower-cased and trimmed before the user can log in again.
type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
	Cart      []cartItemDoc      `bson:"cart"`
	Promos    []string           `bson:"promos"`
}

type cartItemDoc struct {
	ItemID          string   `bson:"itemId"`
	ItemName        string   `bson:"itemName"`
	Price           float64  `bson:"price"`
	Quantity        int      `bson:"quantity"`
	DiscountedValue *float64 `bson:"discountedValue,omitempty"`
}

func toCartItemDoc(it domain.CartItem) cartItemDoc {
	return cartItemDoc{
		ItemID:          it.ItemID,
		ItemName:        it.ItemName,
		Price:           it.Price,
		Quantity:        it.Quantity,
		DiscountedValue: it.DiscountedValue,
	}
}

func (d cartItemDoc) toDomain() domain.CartItem {
	return domain.CartItem{
		ItemID:          d.ItemID,
		ItemName:        d.ItemName,
		Price:           d.Price,
		Quantity:        d.Quantity,
		DiscountedValue: d.DiscountedValue,
	}
}

func (d *userDoc) toDomain() *domain.User {
	cart := make([]domain.CartItem, 0, len(d.Cart))
	for _, it := range d.Cart {
		cart = append(cart, it.toDomain())
	}
	promos := d.Promos
	if promos == nil {
		promos = []string{}
	}
	return &domain.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt.UTC(),
		Cart:         cart,
		Promos:       promos,
	}
}

func fromDomain(u *domain.User) userDoc {
	cart := make([]cartItemDoc, 0, len(u.Cart))
	for _, it := range u.Cart {
		cart = append(cart, toCartItemDoc(it))
	}
	promos := u.Promos
	if promos == nil {
		promos = []string{}
	}
	return userDoc{
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		Cart:      cart,
		Promos:    promos,
	}
}

// parseID turns a wire user ID into an ObjectID. A malformed ID can never
// match a document, so it is reported as an unknown user.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrUserNotFound
	}
	return oid, nil
}
