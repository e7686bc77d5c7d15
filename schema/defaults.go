package schema

// Built-in schema documents used when the catalog has no stored row. They
// match the shipped bootstrap SQL, so a fresh database behaves the same
// before and after seeding.

var defaultSourceSchemaDocs = map[string]string{
	"adb": `{
		"source_name": "adb",
		"language": "en",
		"field_mappings": {
			"title":          {"type": "string",   "maps_to": "title"},
			"description":    {"type": "string",   "maps_to": "description"},
			"published_date": {"type": "date",     "maps_to": "date_published"},
			"deadline":       {"type": "date",     "maps_to": "closing_date"},
			"budget":         {"type": "monetary", "maps_to": "tender_value"},
			"location":       {"type": "string",   "maps_to": "location"},
			"authority":      {"type": "string",   "maps_to": "issuing_authority"}
		}
	}`,
	"wb": `{
		"source_name": "wb",
		"language": "en",
		"field_mappings": {
			"title":            {"type": "string",   "maps_to": "title"},
			"description":      {"type": "string",   "maps_to": "description"},
			"publication_date": {"type": "date",     "maps_to": "date_published"},
			"closing_date":     {"type": "date",     "maps_to": "closing_date"},
			"value":            {"type": "monetary", "maps_to": "tender_value"},
			"country":          {"type": "string",   "maps_to": "location"},
			"borrower":         {"type": "string",   "maps_to": "issuing_authority"}
		}
	}`,
	"ungm": `{
		"source_name": "ungm",
		"language": "en",
		"field_mappings": {
			"title":       {"type": "string",   "maps_to": "title"},
			"description": {"type": "string",   "maps_to": "description"},
			"published":   {"type": "date",     "maps_to": "date_published"},
			"deadline":    {"type": "date",     "maps_to": "closing_date"},
			"value":       {"type": "monetary", "maps_to": "tender_value"},
			"country":     {"type": "string",   "maps_to": "location"},
			"agency":      {"type": "string",   "maps_to": "issuing_authority"}
		}
	}`,
}

const defaultTargetSchemaDoc = `[
	{
		"name": "title",
		"type": "string",
		"description": "Title of the tender",
		"format": "Title case, max 200 characters",
		"required": true
	},
	{
		"name": "description",
		"type": "string",
		"description": "Detailed description of the tender",
		"format": "Plain text, max 2000 characters",
		"requires_translation": true
	},
	{
		"name": "date_published",
		"type": "date",
		"description": "Date when the tender was published",
		"format": "ISO 8601 (YYYY-MM-DD)"
	},
	{
		"name": "closing_date",
		"type": "date",
		"description": "Deadline for tender submissions",
		"format": "ISO 8601 (YYYY-MM-DD)"
	},
	{
		"name": "tender_value",
		"type": "monetary",
		"description": "Estimated value of the tender",
		"format": "Numeric value followed by currency code (e.g., 1000000 USD)"
	},
	{
		"name": "tender_currency",
		"type": "string",
		"description": "Currency of the tender value",
		"format": "ISO 4217 currency code (e.g., USD, EUR)",
		"extract_from": {"field": "tender_value"}
	},
	{
		"name": "location",
		"type": "string",
		"description": "Location where the project will be implemented",
		"format": "City, Country"
	},
	{
		"name": "issuing_authority",
		"type": "string",
		"description": "Organization issuing the tender",
		"format": "Official organization name"
	},
	{
		"name": "tender_type",
		"type": "string",
		"description": "Type of tender",
		"format": "One of: Goods, Works, Services, Consulting",
		"extract_from": {"field": "description"}
	},
	{
		"name": "project_size",
		"type": "string",
		"description": "Size of the project",
		"format": "One of: Small, Medium, Large, Very Large",
		"extract_from": {"field": "tender_value"}
	},
	{
		"name": "keywords",
		"type": "string",
		"description": "Keywords related to the tender",
		"format": "Comma-separated list of keywords",
		"extract_from": {"field": "description"}
	},
	{
		"name": "contact_information",
		"type": "string",
		"description": "Contact information for inquiries",
		"format": "Name, email, phone number",
		"default": ""
	}
]`
