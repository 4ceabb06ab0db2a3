// Package semtype defines the static type hierarchy used by classification.
//
// Three families of tags live in one hierarchy:
//   - Storage types: the coarse declared type of a column ("integer", "text", ...).
//   - Semantic types: the inferred meaning of a column ("latitude", "income", ...).
//   - Entity kinds: the inferred business-domain role of a table
//     ("transaction_table", "event_table", ...).
//
// All tags are plain strings so they serialize cleanly into config and output
// JSON. Subtype relationships ("integer" is-a "number") are encoded in a static
// parent adjacency built once at package init; see hierarchy.go.
//
// The hierarchy is immutable after init and safe for concurrent reads.
package semtype

// Type is an opaque tag in the hierarchy.
type Type string

// Storage types.
//
// These describe the declared column type as reported by schema discovery,
// not the inferred meaning. "number" and "temporal" are abstract parents used
// by classification rules that accept any numeric or any date/time column.
const (
	Any Type = "any" // root of the hierarchy

	Number   Type = "number"
	Integer  Type = "integer"
	Float    Type = "float"
	Decimal  Type = "decimal"
	Text     Type = "text"
	Boolean  Type = "boolean"
	Temporal Type = "temporal"
	Date     Type = "date"
	Time     Type = "time"
	DateTime Type = "datetime"
)

// Semantic types.
const (
	PrimaryKey Type = "primary_key"
	ForeignKey Type = "foreign_key"

	Coordinate Type = "coordinate"
	Latitude   Type = "latitude"
	Longitude  Type = "longitude"

	URL       Type = "url"
	ImageURL  Type = "image_url"
	AvatarURL Type = "avatar_url"

	Email       Type = "email"
	Name        Type = "name"
	Title       Type = "title"
	Description Type = "description"
	Comment     Type = "comment"
	Category    Type = "category"
	Source      Type = "source"
	Owner       Type = "owner"
	Author      Type = "author"
	Company     Type = "company"
	Product     Type = "product"

	City    Type = "city"
	State   Type = "state"
	Country Type = "country"
	ZipCode Type = "zip_code"

	Income   Type = "income"
	Price    Type = "price"
	Cost     Type = "cost"
	Discount Type = "discount"
	Quantity Type = "quantity"
	Score    Type = "score"
	Share    Type = "share"
	Duration Type = "duration"

	Birthdate         Type = "birthdate"
	JoinTimestamp     Type = "join_timestamp"
	CreationTimestamp Type = "creation_timestamp"
	UpdateTimestamp   Type = "update_timestamp"
)

// Entity kinds.
//
// Every table resolves to exactly one of these; GenericTable is the fallback
// when neither name rules nor the owning data source's engine kind say more.
const (
	GenericTable      Type = "generic_table"
	TransactionTable  Type = "transaction_table"
	EventTable        Type = "event_table"
	AnalyticsTable    Type = "analytics_table"
	UserTable         Type = "user_table"
	CompanyTable      Type = "company_table"
	ProductTable      Type = "product_table"
	SubscriptionTable Type = "subscription_table"
)
