package models

import (
	"bitbucket.org/mmdatafocus/insights_backend/config"
	"github.com/sirupsen/logrus"
)

func MigrateTable() {
	db := config.GetDB()
	logger := config.GetLogger()

	err := db.AutoMigrate(
		&Organization{},
		&Customer{},
		&Item{},
		&ItemTrack{},
		&SalesInvoice{},
		&InvoiceLineItem{},
		&Expense{},
		&ExpenseLine{},
	)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"field": "Migrating Tables",
		}).Panic(err.Error())
	}
}
