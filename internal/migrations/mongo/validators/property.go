package validators

import "go.mongodb.org/mongo-driver/bson"

var PropertyValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"title",
			"location",
			"price_per_night",
			"images",
			"max_guests",
			"owner_id",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 2000,
			},

			"location": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"price_per_night": bson.M{
				"bsonType":         []string{"double", "int", "long", "decimal"},
				"exclusiveMinimum": true,
				"minimum":          0,
			},

			"images": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 20,
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"amenities": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
					"enum": []string{
						"wifi", "parking", "pool", "gym", "ac", "kitchen", "tv", "washer",
					},
				},
			},

			"bedrooms": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  50,
			},

			"bathrooms": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  50,
			},

			"max_guests": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  200,
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"available",
					"booked",
					"maintenance",
				},
			},

			"rating": bson.M{
				"bsonType": []string{"double", "int"},
				"minimum":  0,
				"maximum":  5,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
