/*
Package config loads tablestore store definitions.

A configuration maps logical store names, which callers pass to the
classifier, to connection settings and table key schemas:

	stores:
	  test:
	    region: us-east-1
	    endpoint: http://localhost:8000
	    tables:
	      products:
	        name: products-test
	  prod:
	    region: ${AWS_REGION}
	    tables:
	      products:
	        partitionKey: PK
	        rowKey: SK

A .env file is loaded into the environment before the file is read. Empty
region, endpoint and credential fields fall back to AWS_REGION,
AWS_DDB_ENDPOINT, AWS_ACCESS_KEY and AWS_SECRET_KEY.
*/
package config
