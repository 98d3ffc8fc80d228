// Package schema declares types in YAML instead of Go.
//
// A schema file lists struct types with their fields, named scalar enums,
// and domains grouping types under a name:version identity:
//
//	version: "1"
//	namespace: shop
//	enums:
//	  - name: Status
//	    kind: string
//	types:
//	  - name: Base
//	    fields:
//	      - name: id
//	        type: string
//	        markers: id
//	  - name: Order
//	    extends: Base
//	    fields:
//	      - name: customer
//	        type: string
//	        alias: [client, buyer]
//	        constraints: [notnull, minlen=2]
//	      - name: lines
//	        type: "[]Line"
//	      - name: labels
//	        type: map[string]string
//	      - name: status
//	        type: Status
//	    operations: total
//	domains:
//	  - domain: shop:1
//	    types: [Order]
//
// Type expressions are scalar kind names (string, int32, time, ...), declared
// names, "any", and the forms []T, *T and map[K]V. Build turns a valid file
// into analyze descriptors that derive like Go types, and Provider serves
// its domains to registry discovery.
package schema
