package models

// NotFound is the sentinel value for a product field that could not be
// determined by any extraction stage.
const NotFound = "Not found"

// ProductRecord is the unit flowing through the lookup pipeline: seeded from
// a search result, filled in by the identifier extractor, then reconciled
// against the LLM enrichment pass.
type ProductRecord struct {
	// SKUID is the merchant's SKU or item number. "Not found" when absent.
	SKUID string `json:"sku_id"`

	// PartNumber is the manufacturer part/model number. "Not found" when absent.
	PartNumber string `json:"part_number"`

	// Name is the product name, seeded from the search result title.
	Name string `json:"product_name"`

	// Brand is the brand or manufacturer. Defaults to "Not found".
	Brand string `json:"brand"`

	// Price is the price string including currency symbol. Defaults to "Not found".
	Price string `json:"price"`

	// Description is seeded from the search snippet and may be replaced by
	// the enrichment pass.
	Description string `json:"description"`

	// SourceURL is the product page URL. It is the record's immutable key:
	// the enrichment cache and downstream dedup are both keyed on it.
	SourceURL string `json:"product_url"`
}

// Missing reports whether a field value should be treated as absent for
// reconciliation purposes.
func Missing(v string) bool {
	return v == "" || v == NotFound
}
