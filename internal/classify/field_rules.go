package classify

import "metascan/internal/semtype"

// Storage sets shared by many rules. "number" admits integer, float, and
// decimal via the subtype relation.
var (
	anyStorage  []semtype.Type // empty set = no storage constraint
	numberOnly  = []semtype.Type{semtype.Number}
	integerOnly = []semtype.Type{semtype.Integer}
	floatOnly   = []semtype.Type{semtype.Float}
	textOnly    = []semtype.Type{semtype.Text}
	temporal    = []semtype.Type{semtype.Temporal}
	textOrInt   = []semtype.Type{semtype.Text, semtype.Integer}
)

// fieldRules is the ordered field rule table. Position encodes priority:
// earlier rules win, so ordering is load-bearing: do not sort, group, or
// convert to a map.
//
// Anchoring is per rule and intentional. `^qty$` must match the whole name;
// `count$` is a deliberate suffix rule ("page_count", "retry_count");
// `total` is a deliberate substring rule ("total", "order_total",
// "total_amount").
var fieldRules = compileFieldRules([]FieldRule{
	// Keys first: *_id beats every other inference for the same name.
	{Pattern: `_id$`, Storage: anyStorage, Result: semtype.ForeignKey},
	{Pattern: `^(uu|gu)id$`, Storage: textOnly, Result: semtype.PrimaryKey},

	// Coordinates.
	{Pattern: `_lat$`, Storage: floatOnly, Result: semtype.Latitude},
	{Pattern: `^lat$`, Storage: floatOnly, Result: semtype.Latitude},
	{Pattern: `latitude`, Storage: floatOnly, Result: semtype.Latitude},
	{Pattern: `_lon(g(itude)?)?$`, Storage: floatOnly, Result: semtype.Longitude},
	{Pattern: `_lng$`, Storage: floatOnly, Result: semtype.Longitude},
	{Pattern: `^(lon|lng|long)$`, Storage: floatOnly, Result: semtype.Longitude},
	{Pattern: `longitude`, Storage: floatOnly, Result: semtype.Longitude},

	// Contact and links.
	{Pattern: `e[-_]?mail`, Storage: textOnly, Result: semtype.Email},
	{Pattern: `avatar`, Storage: textOnly, Result: semtype.AvatarURL},
	{Pattern: `image`, Storage: textOnly, Result: semtype.ImageURL},
	{Pattern: `photo`, Storage: textOnly, Result: semtype.ImageURL},
	{Pattern: `^url$`, Storage: textOnly, Result: semtype.URL},
	{Pattern: `_url$`, Storage: textOnly, Result: semtype.URL},
	{Pattern: `link`, Storage: textOnly, Result: semtype.URL},

	// Address.
	{Pattern: `zip`, Storage: textOrInt, Result: semtype.ZipCode},
	{Pattern: `postal(_?code)?`, Storage: textOrInt, Result: semtype.ZipCode},
	{Pattern: `city`, Storage: textOnly, Result: semtype.City},
	{Pattern: `state`, Storage: textOnly, Result: semtype.State},
	{Pattern: `country`, Storage: textOnly, Result: semtype.Country},

	// Timestamps.
	{Pattern: `birth`, Storage: temporal, Result: semtype.Birthdate},
	{Pattern: `join`, Storage: temporal, Result: semtype.JoinTimestamp},
	{Pattern: `creat(ed|ion)`, Storage: temporal, Result: semtype.CreationTimestamp},
	{Pattern: `(updated?|modified)`, Storage: temporal, Result: semtype.UpdateTimestamp},

	// Money and measures.
	{Pattern: `price`, Storage: numberOnly, Result: semtype.Price},
	{Pattern: `cost`, Storage: numberOnly, Result: semtype.Cost},
	{Pattern: `discount`, Storage: numberOnly, Result: semtype.Discount},
	{Pattern: `total`, Storage: numberOnly, Result: semtype.Income},
	{Pattern: `amount`, Storage: numberOnly, Result: semtype.Income},
	{Pattern: `income`, Storage: numberOnly, Result: semtype.Income},
	{Pattern: `revenue`, Storage: numberOnly, Result: semtype.Income},
	{Pattern: `salary`, Storage: numberOnly, Result: semtype.Income},
	{Pattern: `earnings`, Storage: numberOnly, Result: semtype.Income},
	{Pattern: `count$`, Storage: integerOnly, Result: semtype.Quantity},
	{Pattern: `^qty$`, Storage: integerOnly, Result: semtype.Quantity},
	{Pattern: `quantity`, Storage: integerOnly, Result: semtype.Quantity},
	{Pattern: `number_?of`, Storage: integerOnly, Result: semtype.Quantity},
	{Pattern: `duration`, Storage: numberOnly, Result: semtype.Duration},
	{Pattern: `score`, Storage: numberOnly, Result: semtype.Score},
	{Pattern: `rating`, Storage: numberOnly, Result: semtype.Score},
	{Pattern: `stars$`, Storage: numberOnly, Result: semtype.Score},
	{Pattern: `percent`, Storage: numberOnly, Result: semtype.Share},
	{Pattern: `share`, Storage: floatOnly, Result: semtype.Share},
	{Pattern: `ratio`, Storage: floatOnly, Result: semtype.Share},

	// Categorical text.
	{Pattern: `^sex$`, Storage: textOnly, Result: semtype.Category},
	{Pattern: `gender`, Storage: textOnly, Result: semtype.Category},
	{Pattern: `category`, Storage: textOnly, Result: semtype.Category},
	{Pattern: `status$`, Storage: textOnly, Result: semtype.Category},
	{Pattern: `_type$`, Storage: textOnly, Result: semtype.Category},
	{Pattern: `^type$`, Storage: textOnly, Result: semtype.Category},
	{Pattern: `source`, Storage: textOnly, Result: semtype.Source},
	{Pattern: `channel`, Storage: textOnly, Result: semtype.Source},

	// People and organizations.
	{Pattern: `owner`, Storage: textOnly, Result: semtype.Owner},
	{Pattern: `author`, Storage: textOnly, Result: semtype.Author},
	{Pattern: `company`, Storage: textOnly, Result: semtype.Company},
	{Pattern: `vendor`, Storage: textOnly, Result: semtype.Company},
	{Pattern: `supplier`, Storage: textOnly, Result: semtype.Company},
	{Pattern: `product`, Storage: textOnly, Result: semtype.Product},

	// Free text last: `name` is a broad substring rule and must not shadow
	// the more specific rules above ("company_name" is a company, not a name).
	{Pattern: `name`, Storage: textOnly, Result: semtype.Name},
	{Pattern: `^title$`, Storage: textOnly, Result: semtype.Title},
	{Pattern: `descr`, Storage: textOnly, Result: semtype.Description},
	{Pattern: `comment`, Storage: textOnly, Result: semtype.Comment},
	{Pattern: `^notes?$`, Storage: textOnly, Result: semtype.Description},
})
