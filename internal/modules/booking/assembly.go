package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourbooking/internal/adapter/link"
	"tourbooking/internal/adapter/lock"
	"tourbooking/internal/adapter/order"
	"tourbooking/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Lock window for one cart completion. The timeout bounds how long a
// second completion attempt waits; the TTL frees the lock if the holder
// crashes mid-workflow.
const (
	lockTimeout = 2 * time.Second
	lockTTL     = 10 * time.Second
)

// CompleteCart turns a cart into an order plus one booking per travel
// party:
//
//	complete cart -> group line items by group_id -> create bookings ->
//	link bookings to the order -> refetch the enriched order
//
// The cart id is locked for the whole run so two concurrent completions
// of the same cart cannot double-book. If the order already has booking
// links (a retried run), creation is skipped. If linking fails after
// bookings were created, the bookings are compensated (deleted by id,
// best-effort) and the original error propagates.
//
// No lock is taken on the (offering, date) capacity itself: two carts
// completing concurrently against the same departure can still race past
// max_capacity between validation and insert. That trade-off is
// deliberate; capacity reads surface the resulting negative remainder.
func (s *Service) CompleteCart(ctx context.Context, cartID string) (*order.Order, error) {
	if err := s.lock.Acquire(ctx, cartID, lockTimeout, lockTTL); err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, ErrCartLocked
		}
		return nil, err
	}
	defer func() {
		if err := s.lock.Release(context.Background(), cartID); err != nil {
			s.log.WithError(err).WithField("cart_id", cartID).Warn("failed to release cart lock")
		}
	}()

	ord, err := s.orders.CompleteCart(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("complete cart: %w", err)
	}

	cart, err := s.orders.RetrieveCart(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("retrieve cart: %w", err)
	}

	// Idempotence guard: a retried run must not duplicate bookings.
	existing, err := s.links.LeftIDsFor(ctx, link.TypeBooking, link.TypeOrder, ord.ID)
	if err != nil {
		return nil, fmt.Errorf("query existing links: %w", err)
	}

	if len(existing) == 0 {
		created, err := s.createBookingsForOrder(ctx, ord.ID, cart)
		if err != nil {
			return nil, err
		}

		linkRows := make([]link.Link, 0, len(created))
		for _, b := range created {
			linkRows = append(linkRows, link.New(link.TypeBooking, b.ID, link.TypeOrder, ord.ID))
		}
		if err := s.links.CreateLinks(ctx, linkRows); err != nil {
			s.compensateBookings(created)
			return nil, fmt.Errorf("link bookings to order: %w", err)
		}
	} else {
		s.log.WithFields(logrus.Fields{
			"order_id": ord.ID,
			"bookings": len(existing),
		}).Info("order already has booking links, skipping booking creation")
	}

	refetched, err := s.orders.RetrieveOrder(ctx, ord.ID)
	if err != nil {
		s.log.WithError(err).WithField("order_id", ord.ID).
			Warn("could not refetch order after completion")
		return ord, nil
	}
	return refetched, nil
}

// createBookingsForOrder groups cart items by the client-assigned
// group_id tag and persists one booking per group. Grouping is driven by
// the tag, not catalog identity, so two parties booking the same
// offering and date stay distinct rows. The offering and date are taken
// from each group's first item; items in one group are assumed to share
// them.
func (s *Service) createBookingsForOrder(ctx context.Context, orderID string, cart *order.Cart) ([]domain.Booking, error) {
	groupOrder := make([]string, 0)
	groups := make(map[string][]order.CartItem)
	for _, item := range cart.Items {
		gid := metaString(item.Metadata, metaGroupID)
		if gid == "" {
			continue
		}
		if _, ok := groups[gid]; !ok {
			groupOrder = append(groupOrder, gid)
		}
		groups[gid] = append(groups[gid], item)
	}

	if len(groups) == 0 {
		return nil, ErrEmptyCart
	}

	toCreate := make([]domain.Booking, 0, len(groups))
	for _, gid := range groupOrder {
		items := groups[gid]
		first := items[0]

		variant, err := s.offerings.VariantByCatalogID(ctx, first.VariantID)
		if err != nil {
			return nil, fmt.Errorf("resolve variant %s: %w", first.VariantID, err)
		}

		date, err := parseDate(metaString(first.Metadata, metaOfferingDate))
		if err != nil {
			return nil, fmt.Errorf("%w: group %s has no valid offering_date", ErrValidation, gid)
		}

		lineItems := make([]domain.BookingLineItem, 0, len(items))
		for _, item := range items {
			v, err := s.offerings.VariantByCatalogID(ctx, item.VariantID)
			if err != nil {
				return nil, fmt.Errorf("resolve variant %s: %w", item.VariantID, err)
			}
			qty := item.Quantity
			if qty < 1 {
				qty = 1
			}
			lineItems = append(lineItems, domain.BookingLineItem{
				VariantID:         v.VariantID,
				OfferingVariantID: v.ID,
				PassengerType:     v.PassengerType,
				Quantity:          qty,
				PassengerName:     metaString(item.Metadata, metaCustomerName),
			})
		}

		toCreate = append(toCreate, domain.Booking{
			OrderID:      orderID,
			OfferingID:   variant.OfferingID,
			OfferingDate: date,
			Status:       domain.BookingPending,
			LineItems:    lineItems,
		})
	}

	created, err := s.bookings.CreateBatch(ctx, toCreate)
	if err != nil {
		return nil, fmt.Errorf("create bookings: %w", err)
	}
	return created, nil
}

// compensateBookings deletes the bookings a failed run created.
// Best-effort: a failure here is logged, never retried or re-thrown.
func (s *Service) compensateBookings(created []domain.Booking) {
	ids := make([]string, 0, len(created))
	for _, b := range created {
		ids = append(ids, b.ID)
	}
	if err := s.bookings.DeleteByIDs(context.Background(), ids); err != nil {
		s.log.WithError(err).WithField("booking_ids", ids).
			Error("compensation: failed to delete bookings")
	}
}

// ValidateCart checks every (offering, date) pair in a cart before
// checkout. Passenger counts are summed per pair, not per group, so one
// over-capacity departure fails the whole cart.
func (s *Service) ValidateCart(ctx context.Context, cartID string) (bool, []CartValidationItem, error) {
	cart, err := s.orders.RetrieveCart(ctx, cartID)
	if err != nil {
		return false, nil, fmt.Errorf("retrieve cart: %w", err)
	}

	type pair struct {
		offeringID string
		date       string
		passengers int
	}
	keys := make([]string, 0)
	pairs := make(map[string]*pair)

	for _, item := range cart.Items {
		offeringID := metaString(item.Metadata, metaOfferingID)
		dateStr := metaString(item.Metadata, metaOfferingDate)
		if offeringID == "" || dateStr == "" {
			continue
		}
		key := offeringID + ":" + dateStr
		p, ok := pairs[key]
		if !ok {
			p = &pair{offeringID: offeringID, date: dateStr}
			pairs[key] = p
			keys = append(keys, key)
		}
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		p.passengers += qty
	}

	results := make([]CartValidationItem, 0, len(pairs))
	allValid := true
	for _, key := range keys {
		p := pairs[key]
		date, err := parseDate(p.date)
		if err != nil {
			allValid = false
			results = append(results, CartValidationItem{
				OfferingID:   p.offeringID,
				OfferingDate: p.date,
				Passengers:   p.passengers,
				Available:    false,
				Reason:       "invalid offering_date",
			})
			continue
		}

		result, err := s.validator.ValidateBooking(ctx, p.offeringID, date, p.passengers)
		if err != nil {
			return false, nil, err
		}
		capacity, err := s.validator.GetAvailableCapacity(ctx, p.offeringID, date)
		if err != nil {
			return false, nil, err
		}

		if !result.Valid {
			allValid = false
		}
		results = append(results, CartValidationItem{
			OfferingID:   p.offeringID,
			OfferingDate: p.date,
			Passengers:   p.passengers,
			Available:    result.Valid,
			Capacity:     capacity,
			Reason:       result.Reason,
		})
	}

	return allValid, results, nil
}

// AddCartItems adds one travel party to a cart: one line item per
// passenger type with its quantity, all tagged with a fresh group id so
// the assembly workflow later folds them into a single booking.
func (s *Service) AddCartItems(ctx context.Context, cartID string, req AddCartItemsRequest) (*order.Cart, error) {
	total := req.Adults + req.Children + req.Infants
	if total == 0 {
		return nil, fmt.Errorf("%w: at least one passenger is required", ErrValidation)
	}

	offering, err := s.offerings.GetByID(ctx, req.OfferingID)
	if err != nil {
		return nil, ErrNotFound
	}

	date, err := parseDate(req.OfferingDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid offering_date", ErrValidation)
	}

	result, err := s.validator.ValidateBooking(ctx, req.OfferingID, date, total)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrNotAvailable, result.Reason)
	}

	variantByType := make(map[domain.PassengerType]domain.OfferingVariant)
	for _, v := range offering.Variants {
		variantByType[v.PassengerType] = v
	}

	groupID := "grp_" + uuid.NewString()
	baseMetadata := map[string]any{
		metaGroupID:      groupID,
		metaOfferingID:   offering.ID,
		metaOfferingDate: domain.DateKey(date),
	}
	if req.CustomerName != "" {
		baseMetadata[metaCustomerName] = req.CustomerName
	}

	counts := []struct {
		pt  domain.PassengerType
		qty int
	}{
		{domain.PassengerAdult, req.Adults},
		{domain.PassengerChild, req.Children},
		{domain.PassengerInfant, req.Infants},
	}

	items := make([]order.LineItemInput, 0, 3)
	for _, c := range counts {
		if c.qty == 0 {
			continue
		}
		variant, ok := variantByType[c.pt]
		if !ok {
			return nil, fmt.Errorf("%w: %s variant not found", ErrValidation, c.pt)
		}
		metadata := make(map[string]any, len(baseMetadata)+1)
		for k, v := range baseMetadata {
			metadata[k] = v
		}
		metadata[metaPassengerType] = string(c.pt)
		items = append(items, order.LineItemInput{
			VariantID: variant.VariantID,
			Quantity:  c.qty,
			Metadata:  metadata,
		})
	}

	cart, err := s.orders.AddLineItems(ctx, cartID, items)
	if err != nil {
		return nil, fmt.Errorf("add line items: %w", err)
	}
	return cart, nil
}
