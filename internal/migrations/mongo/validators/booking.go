package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"property_id",
			"user_id",
			"start_date",
			"end_date",
			"total_price",
			"guest_count",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"property_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"start_date": bson.M{
				"bsonType": "date",
			},

			"end_date": bson.M{
				"bsonType": "date",
			},

			"total_price": bson.M{
				"bsonType":         []string{"double", "int", "long", "decimal"},
				"exclusiveMinimum": true,
				"minimum":          0,
			},

			"guest_count": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  200,
			},

			"special_requests": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"cancelled",
					"completed",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
