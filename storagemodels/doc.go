/*
Package storagemodels defines the data structures shared by every tablestore backend.

Key Types:

Item:
A raw entity as the store returns it, a map of DynamoDB attribute values.
Entities are decoded from items with attributevalue.UnmarshalMap.

Filter:
Selects entities for a multi-entity query:

	filter := storagemodels.Where(
	    storagemodels.Eq("Category", "TECH"),
	    storagemodels.Ge("Price", 100),
	).InPartition("TECH").WithPageSize(25)

Conditions are ANDed. A filter with a partition key is executed as a query on
that partition; without one the table is scanned.
*/
package storagemodels
