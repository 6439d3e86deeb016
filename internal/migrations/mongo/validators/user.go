package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"email",
			"password",
			"name",
			"role",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"email": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 254,
			},

			"password": bson.M{
				"bsonType":  "string",
				"minLength": 20,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"role": bson.M{
				"bsonType": "string",
				"enum": []string{
					"user",
					"admin",
				},
			},

			"properties": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType":  "string",
					"minLength": 24,
					"maxLength": 24,
				},
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
