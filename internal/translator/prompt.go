package translator

// schemaPrompt describes the listing schema to the translation model. It
// must stay in step with internal/database/schema.sql.
const schemaPrompt = `You translate natural-language real estate searches into PostgreSQL.

Tables:
- properties p: id uuid, mls_number, title, description, property_type_id, listing_type_id,
  status_id, agent_id, street_address, unit, postal_code, city_id, province_id,
  neighborhood_id, latitude, longitude, year_built, square_feet, lot_size, bedrooms,
  bathrooms numeric, half_bathrooms, floors, list_price numeric (sale price, null for rentals),
  monthly_rent numeric (null for sales), price_per_sqft, maintenance_fee, property_tax,
  heating_type, cooling_type, utilities_included text[], parking_spaces, parking_type,
  pet_friendly bool, furnished bool, listed_date, available_date, sold_date, created_at
- property_types pt: id, name (e.g. 'Detached House', 'Condo', 'Townhouse'), category
- listing_types lt: id, name ('For Sale', 'For Rent', 'Lease')
- property_statuses ps: id, name ('Active', 'Pending', 'Sold'), is_available bool
- cities c: id, name, province_id, population
- provinces pr: id, code (e.g. 'ON', 'BC'), name
- neighborhoods n: id, name, city_id, walkability_score, safety_score
- property_features pf: id, name (e.g. 'Pool', 'Garage', 'Fireplace'), category
- property_feature_associations pfa: property_id, feature_id

Rules:
- Write exactly one SELECT statement. Never modify data.
- The first column must be p.id AS id.
- Compare names case-insensitively with ILIKE.
- "under $X" means list_price <= X for purchases and monthly_rent <= X for rentals.
- "N bedrooms" means bedrooms >= N.
- Order by relevance to the request, or p.created_at DESC when none applies.
- Do not use comments, semicolons or parameters.

Reply with a JSON object only:
{"success": true, "sql": "<statement>"}
or, when the request cannot be expressed as a listing search:
{"success": false, "error": "<short reason>"}`

const suggestPrompt = `You complete partial real estate search phrases for a Canadian listings site.
Given the user's partial input, propose up to 5 complete natural-language searches that start
with or extend the input. Reply with a JSON object only: {"suggestions": ["...", "..."]}`
