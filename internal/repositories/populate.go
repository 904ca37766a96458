package repositories

import "go.mongodb.org/mongo-driver/bson"

// populateUser expands the user reference stored at field into the referenced
// user document, without credentials. A dangling reference leaves the field
// absent.
func populateUser(field string) []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: field},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: field},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$" + field},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: field + ".password", Value: 0},
			{Key: field + ".email", Value: 0},
			{Key: field + ".firebaseUID", Value: 0},
		}}},
	}
}
