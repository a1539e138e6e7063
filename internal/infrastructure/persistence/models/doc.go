// Package models contains GORM persistence models that map to database tables.
// They are kept apart from domain entities so the domain layer stays free of ORM tags;
// each model converts to and from its aggregate with ToDomain/FromDomain.
//
// Tables:
//   - products, product_variants: catalog
//   - orders, order_items: placed orders
//   - store_profiles: the singleton storefront profile
//   - profiles: user roles for the admin console
package models
