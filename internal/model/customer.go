package model

// Customer represents a barbershop client as stored in the `customers`
// table. Each field corresponds to a column in the database. The json tags
// are omitted here because these structs are primarily used internally by
// the repository layer; handlers define separate response types with
// appropriate JSON tags.
//
// Fields:
//  ID       – opaque UUID primary key.
//  Name     – display name shown in listings and selects.
//  Email    – unique contact address.
//  ImageURL – path of the customer's avatar under /customers/.
type Customer struct {
	ID       string // customers.id
	Name     string // customers.name
	Email    string // customers.email
	ImageURL string // customers.image_url
}
