package domain

var Tables = []interface{}{
	&Merchant{},
	&Item{},
	&Invoice{},
	&InvoiceItem{},
	&Transaction{},
}
