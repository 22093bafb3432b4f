package validators

import "go.mongodb.org/mongo-driver/bson"

var PrepaymentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"submission_id",
			"placement_type",
			"capacity",
			"placements_used",
			"status",
			"purchaser_name",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"submission_id": bson.M{
				"bsonType":  "string",
				"minLength": 4,
				"maxLength": 60,
			},

			"placement_type": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 40,
			},

			"capacity": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  2,
			},

			"placements_used": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  2,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"active",
					"partially_used",
					"fully_used",
					"cancelled",
					"refunded",
				},
			},

			"purchaser_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"amount_paid": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"linked_booking_id1": bson.M{
				"bsonType": "string",
			},

			"linked_booking_id2": bson.M{
				"bsonType": "string",
			},

			"notes": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
