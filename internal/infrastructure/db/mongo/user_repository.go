package mongo

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cloudmart/accounts/internal/core/domain"
	"github.com/cloudmart/accounts/internal/core/ports"
)

// UserRepository implements ports.UserRepository and ports.CredentialStore on
// the users collection. Each mutation is one server-side operation, so
// concurrent requests for the same user never lose each other's writes.
type UserRepository struct {
	coll *mongo.Collection
}

var (
	_ ports.UserRepository  = (*UserRepository)(nil)
	_ ports.CredentialStore = (*UserRepository)(nil)
)

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index that backs duplicate
// registration detection. It is safe to call on every start.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("created_at"),
		},
	})
	if err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := fromDomain(user)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns every user ordered by creation time. Password hashes, carts and
// promos are not loaded.
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.D{{Key: "password", Value: 0}, {Key: "cart", Value: 0}, {Key: "promos", Value: 0}})

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, nil
}

func (r *UserRepository) UpsertCartItem(ctx context.Context, userID string, item domain.CartItem) (bool, error) {
	oid, err := parseID(userID)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.Before).
		SetProjection(bson.D{{Key: "cart.itemId", Value: 1}})

	var before struct {
		Cart []struct {
			ItemID string `bson:"itemId"`
		} `bson:"cart"`
	}
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, cartUpsertPipeline(toCartItemDoc(item)), opts).Decode(&before)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, domain.ErrUserNotFound
		}
		return false, fmt.Errorf("upsert cart item: %w", err)
	}

	for _, line := range before.Cart {
		if line.ItemID == item.ItemID {
			return false, nil
		}
	}
	return true, nil
}

func (r *UserRepository) ClearCart(ctx context.Context, userID string) error {
	oid, err := parseID(userID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, clearCartUpdate())
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) AddPromo(ctx context.Context, userID, code string) (bool, error) {
	before, err := r.updatePromos(ctx, userID, addPromoUpdate(code))
	if err != nil {
		return false, fmt.Errorf("add promo: %w", err)
	}
	return !slices.Contains(before, code), nil
}

func (r *UserRepository) RemovePromo(ctx context.Context, userID, code string) (bool, error) {
	before, err := r.updatePromos(ctx, userID, removePromoUpdate(code))
	if err != nil {
		return false, fmt.Errorf("remove promo: %w", err)
	}
	return slices.Contains(before, code), nil
}

// updatePromos applies update and returns the promos array as it was before.
func (r *UserRepository) updatePromos(ctx context.Context, userID string, update bson.D) ([]string, error) {
	oid, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.Before).
		SetProjection(bson.D{{Key: "promos", Value: 1}})

	var before struct {
		Promos []string `bson:"promos"`
	}
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&before)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return before.Promos, nil
}
