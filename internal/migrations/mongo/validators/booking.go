package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"service_date",
			"service_time",
			"service_type",
			"status",
			"service_for",
			"contact_name",
			"contact_email",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"service_date": bson.M{
				"bsonType": "date",
			},

			"service_time": bson.M{
				"bsonType": "string",
				"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
			},

			"service_type": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 40,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"approved",
					"rejected",
					"cancelled",
				},
			},

			"service_for": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"contact_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"contact_email": bson.M{
				"bsonType": "string",
			},

			"prepayment_used": bson.M{
				"bsonType": "bool",
			},

			"status_history": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
