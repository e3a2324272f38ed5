package testmodels

// Product is a catalogue entry partitioned by category.
type Product struct {

	// Category the product belongs to; the partition key.
	Category string `dynamodbav:"PartitionKey" json:"Category"`

	// Unique identifier within the category; the row key.
	ID string `dynamodbav:"RowKey" json:"Id"`

	// Price in cents.
	Price int `dynamodbav:"Price" json:"Price"`

	// Name of the product.
	Name string `dynamodbav:"Name,omitempty" json:"Name,omitempty"`
}

// NewProduct builds a Product with the given identity and price.
func NewProduct(category, id string, price int) Product {
	return Product{Category: category, ID: id, Price: price}
}
