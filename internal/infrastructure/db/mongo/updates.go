package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// literal stops the aggregation engine from reading caller data as field
// paths or operators (an itemId of "$cart" must stay a string).
func literal(v any) bson.D {
	return bson.D{{Key: "$literal", Value: v}}
}

// cartUpsertPipeline is an update pipeline that, in one atomic step, sets the
// quantity of the cart element whose itemId matches item.ItemID, or appends
// item when no element matches. Name and price of an existing element are
// left untouched.
func cartUpsertPipeline(item cartItemDoc) mongo.Pipeline {
	cart := bson.D{{Key: "$ifNull", Value: bson.A{"$cart", bson.A{}}}}
	itemIDs := bson.D{{Key: "$ifNull", Value: bson.A{"$cart.itemId", bson.A{}}}}

	present := bson.D{{Key: "$in", Value: bson.A{literal(item.ItemID), itemIDs}}}

	updated := bson.D{{Key: "$map", Value: bson.D{
		{Key: "input", Value: cart},
		{Key: "as", Value: "line"},
		{Key: "in", Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{"$$line.itemId", literal(item.ItemID)}}},
			bson.D{{Key: "$mergeObjects", Value: bson.A{
				"$$line",
				bson.D{{Key: "quantity", Value: literal(item.Quantity)}},
			}}},
			"$$line",
		}}}},
	}}}

	appended := bson.D{{Key: "$concatArrays", Value: bson.A{cart, bson.A{literal(item)}}}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "cart", Value: bson.D{{Key: "$cond", Value: bson.A{present, updated, appended}}}},
		}}},
	}
}

func clearCartUpdate() bson.D {
	return bson.D{{Key: "$set", Value: bson.D{{Key: "cart", Value: bson.A{}}}}}
}

func addPromoUpdate(code string) bson.D {
	return bson.D{{Key: "$addToSet", Value: bson.D{{Key: "promos", Value: code}}}}
}

func removePromoUpdate(code string) bson.D {
	return bson.D{{Key: "$pull", Value: bson.D{{Key: "promos", Value: code}}}}
}
