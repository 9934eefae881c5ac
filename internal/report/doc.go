// Package report renders a readiness audit as a plain-text report with a fixed section order.
package report
