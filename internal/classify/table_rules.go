package classify

import "metascan/internal/semtype"

// tableNameRules is the ordered table rule table. Position encodes priority;
// do not reorder. Most patterns are deliberate substrings so that schema
// prefixes and plurals match ("stg_orders", "order_items"); the handful of
// anchored rules avoid words that are too short to match loosely.
var tableNameRules = compileTableRules([]TableNameRule{
	{Pattern: `transaction`, Result: semtype.TransactionTable},
	{Pattern: `order`, Result: semtype.TransactionTable},
	{Pattern: `sale`, Result: semtype.TransactionTable},
	{Pattern: `payment`, Result: semtype.TransactionTable},
	{Pattern: `invoice`, Result: semtype.TransactionTable},
	{Pattern: `purchase`, Result: semtype.TransactionTable},

	{Pattern: `user`, Result: semtype.UserTable},
	{Pattern: `account`, Result: semtype.UserTable},
	{Pattern: `people`, Result: semtype.UserTable},
	{Pattern: `person`, Result: semtype.UserTable},
	{Pattern: `employee`, Result: semtype.UserTable},
	{Pattern: `customer`, Result: semtype.UserTable},
	{Pattern: `member`, Result: semtype.UserTable},

	{Pattern: `event`, Result: semtype.EventTable},
	{Pattern: `^logs?$`, Result: semtype.EventTable},
	{Pattern: `activity`, Result: semtype.EventTable},
	{Pattern: `audit`, Result: semtype.EventTable},
	{Pattern: `session`, Result: semtype.EventTable},

	{Pattern: `product`, Result: semtype.ProductTable},
	{Pattern: `item`, Result: semtype.ProductTable},
	{Pattern: `inventory`, Result: semtype.ProductTable},
	{Pattern: `^skus?$`, Result: semtype.ProductTable},
	{Pattern: `service`, Result: semtype.ProductTable},

	{Pattern: `company`, Result: semtype.CompanyTable},
	{Pattern: `organization`, Result: semtype.CompanyTable},
	{Pattern: `vendor`, Result: semtype.CompanyTable},
	{Pattern: `supplier`, Result: semtype.CompanyTable},

	{Pattern: `subscription`, Result: semtype.SubscriptionTable},
	{Pattern: `^plans?$`, Result: semtype.SubscriptionTable},
})

// engineEntityKinds maps a data source's engine kind to the entity kind its
// tables default to when no name rule matched. Engine kinds absent from this
// map contribute nothing; the classifier falls through to GenericTable.
var engineEntityKinds = map[string]semtype.Type{
	"googleanalytics": semtype.AnalyticsTable,
	"druid":           semtype.EventTable,
	"kafka":           semtype.EventTable,
	"kinesis":         semtype.EventTable,
}
