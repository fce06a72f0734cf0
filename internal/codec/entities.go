package codec

import (
	"elfkoelsch/internal/models"
)

// EncodeUserProfile converts a profile to its wire record. Absent optional
// fields are omitted.
func EncodeUserProfile(p models.UserProfile) Record {
	r := Record{
		"id":         p.ID.String(),
		"first_name": p.FirstName,
		"created_at": encodeTime(p.CreatedAt),
		"updated_at": encodeTime(p.UpdatedAt),
	}
	if p.LastName != nil {
		r["last_name"] = *p.LastName
	}
	if p.Username != nil {
		r["username"] = *p.Username
	}
	if p.AvatarURL != nil {
		r["avatar_url"] = *p.AvatarURL
	}
	return r
}

// DecodeUserProfile parses a wire record. ok is false when a required field
// is missing or malformed.
func DecodeUserProfile(r Record) (models.UserProfile, bool) {
	id, ok := getUUID(r, "id")
	if !ok {
		return models.UserProfile{}, false
	}
	firstName, ok := getString(r, "first_name")
	if !ok {
		return models.UserProfile{}, false
	}
	createdAt, ok := getTime(r, "created_at")
	if !ok {
		return models.UserProfile{}, false
	}
	updatedAt, ok := getTime(r, "updated_at")
	if !ok {
		return models.UserProfile{}, false
	}

	return models.UserProfile{
		ID:        id,
		FirstName: firstName,
		LastName:  optString(r, "last_name"),
		Username:  optString(r, "username"),
		AvatarURL: optString(r, "avatar_url"),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, true
}

// EncodeFriendship converts a friendship edge to its wire record.
func EncodeFriendship(f models.Friendship) Record {
	return Record{
		"id":         f.ID.String(),
		"user_id":    f.UserID.String(),
		"friend_id":  f.FriendID.String(),
		"status":     string(f.Status),
		"created_at": encodeTime(f.CreatedAt),
		"updated_at": encodeTime(f.UpdatedAt),
	}
}

// DecodeFriendship parses a wire record.
func DecodeFriendship(r Record) (models.Friendship, bool) {
	id, ok := getUUID(r, "id")
	if !ok {
		return models.Friendship{}, false
	}
	userID, ok := getUUID(r, "user_id")
	if !ok {
		return models.Friendship{}, false
	}
	friendID, ok := getUUID(r, "friend_id")
	if !ok {
		return models.Friendship{}, false
	}
	status, ok := getString(r, "status")
	if !ok {
		return models.Friendship{}, false
	}
	createdAt, ok := getTime(r, "created_at")
	if !ok {
		return models.Friendship{}, false
	}
	updatedAt, ok := getTime(r, "updated_at")
	if !ok {
		return models.Friendship{}, false
	}

	return models.Friendship{
		ID:        id,
		UserID:    userID,
		FriendID:  friendID,
		Status:    models.FriendshipStatus(status),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, true
}

// EncodeBeerSession converts a session to its wire record. An absent message
// encodes as the empty string; that asymmetry is part of the wire contract
// and is reversed on decode.
func EncodeBeerSession(s models.BeerSession) Record {
	message := ""
	if s.Message != nil {
		message = *s.Message
	}
	r := Record{
		"id":          s.ID.String(),
		"user_id":     s.UserID.String(),
		"location_id": s.LocationID.String(),
		"duration":    string(s.Duration),
		"started_at":  encodeTime(s.StartedAt),
		"ends_at":     encodeTime(s.EndsAt),
		"status":      string(s.Status),
		"message":     message,
		"created_at":  encodeTime(s.CreatedAt),
		"beer_count":  s.BeerCount,
	}
	if s.Latitude != nil {
		r["latitude"] = *s.Latitude
	}
	if s.Longitude != nil {
		r["longitude"] = *s.Longitude
	}
	return r
}

// DecodeBeerSession parses a wire record. The message key is required but an
// empty string maps back to absence.
func DecodeBeerSession(r Record) (models.BeerSession, bool) {
	id, ok := getUUID(r, "id")
	if !ok {
		return models.BeerSession{}, false
	}
	userID, ok := getUUID(r, "user_id")
	if !ok {
		return models.BeerSession{}, false
	}
	locationID, ok := getUUID(r, "location_id")
	if !ok {
		return models.BeerSession{}, false
	}
	duration, ok := getString(r, "duration")
	if !ok {
		return models.BeerSession{}, false
	}
	startedAt, ok := getTime(r, "started_at")
	if !ok {
		return models.BeerSession{}, false
	}
	endsAt, ok := getTime(r, "ends_at")
	if !ok {
		return models.BeerSession{}, false
	}
	status, ok := getString(r, "status")
	if !ok {
		return models.BeerSession{}, false
	}
	message, ok := getString(r, "message")
	if !ok {
		return models.BeerSession{}, false
	}
	createdAt, ok := getTime(r, "created_at")
	if !ok {
		return models.BeerSession{}, false
	}

	var messagePtr *string
	if message != "" {
		messagePtr = &message
	}
	beerCount, _ := getInt(r, "beer_count")

	return models.BeerSession{
		ID:         id,
		UserID:     userID,
		LocationID: locationID,
		Duration:   models.SessionDuration(duration),
		StartedAt:  startedAt,
		EndsAt:     endsAt,
		Status:     models.SessionStatus(status),
		Message:    messagePtr,
		CreatedAt:  createdAt,
		Latitude:   optFloat(r, "latitude"),
		Longitude:  optFloat(r, "longitude"),
		BeerCount:  beerCount,
	}, true
}

// EncodeEvent converts an event to its wire record.
func EncodeEvent(e models.Event) Record {
	r := Record{
		"id":             e.ID.String(),
		"title":          e.Title,
		"start_date":     encodeTime(e.StartDate),
		"end_date":       encodeTime(e.EndDate),
		"is_public":      e.IsPublic,
		"attendee_count": e.AttendeeCount,
		"created_by":     e.CreatedBy.String(),
		"created_at":     encodeTime(e.CreatedAt),
		"updated_at":     encodeTime(e.UpdatedAt),
	}
	if e.Description != nil {
		r["description"] = *e.Description
	}
	if e.Location != nil {
		r["location"] = *e.Location
	}
	if e.MaxAttendees != nil {
		r["max_attendees"] = *e.MaxAttendees
	}
	return r
}

// DecodeEvent parses a wire record.
func DecodeEvent(r Record) (models.Event, bool) {
	id, ok := getUUID(r, "id")
	if !ok {
		return models.Event{}, false
	}
	title, ok := getString(r, "title")
	if !ok {
		return models.Event{}, false
	}
	startDate, ok := getTime(r, "start_date")
	if !ok {
		return models.Event{}, false
	}
	endDate, ok := getTime(r, "end_date")
	if !ok {
		return models.Event{}, false
	}
	isPublic, ok := getBool(r, "is_public")
	if !ok {
		return models.Event{}, false
	}
	attendeeCount, ok := getInt(r, "attendee_count")
	if !ok {
		return models.Event{}, false
	}
	createdBy, ok := getUUID(r, "created_by")
	if !ok {
		return models.Event{}, false
	}
	createdAt, ok := getTime(r, "created_at")
	if !ok {
		return models.Event{}, false
	}
	updatedAt, ok := getTime(r, "updated_at")
	if !ok {
		return models.Event{}, false
	}

	return models.Event{
		ID:            id,
		Title:         title,
		Description:   optString(r, "description"),
		Location:      optString(r, "location"),
		StartDate:     startDate,
		EndDate:       endDate,
		IsPublic:      isPublic,
		MaxAttendees:  optInt(r, "max_attendees"),
		AttendeeCount: attendeeCount,
		CreatedBy:     createdBy,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, true
}

// EncodeKoelschLocation converts a venue to its wire record.
func EncodeKoelschLocation(l models.KoelschLocation) Record {
	return Record{
		"id":          l.ID.String(),
		"name":        l.Name,
		"address":     l.Address,
		"latitude":    l.Latitude,
		"longitude":   l.Longitude,
		"price_range": l.PriceRange,
		"phone":       l.Phone,
		"website":     l.Website,
		"tags":        []string(l.Tags),
		"created_at":  encodeTime(l.CreatedAt),
	}
}

// DecodeKoelschLocation parses a wire record. Venue rows come from the
// read-only directory; every field is required.
func DecodeKoelschLocation(r Record) (models.KoelschLocation, bool) {
	id, ok := getUUID(r, "id")
	if !ok {
		return models.KoelschLocation{}, false
	}
	name, ok := getString(r, "name")
	if !ok {
		return models.KoelschLocation{}, false
	}
	address, ok := getString(r, "address")
	if !ok {
		return models.KoelschLocation{}, false
	}
	latitude, ok := getFloat(r, "latitude")
	if !ok {
		return models.KoelschLocation{}, false
	}
	longitude, ok := getFloat(r, "longitude")
	if !ok {
		return models.KoelschLocation{}, false
	}
	priceRange, ok := getString(r, "price_range")
	if !ok {
		return models.KoelschLocation{}, false
	}
	phone, ok := getString(r, "phone")
	if !ok {
		return models.KoelschLocation{}, false
	}
	website, ok := getString(r, "website")
	if !ok {
		return models.KoelschLocation{}, false
	}
	tags, ok := getStrings(r, "tags")
	if !ok {
		return models.KoelschLocation{}, false
	}
	createdAt, ok := getTime(r, "created_at")
	if !ok {
		return models.KoelschLocation{}, false
	}

	return models.KoelschLocation{
		ID:         id,
		Name:       name,
		Address:    address,
		Latitude:   latitude,
		Longitude:  longitude,
		PriceRange: priceRange,
		Phone:      phone,
		Website:    website,
		Tags:       models.StringList(tags),
		CreatedAt:  createdAt,
	}, true
}

// DecodeAuthUser parses the user object of an auth response. Only the id is
// required; the auth provider omits phone, email or created_at depending on
// the flow.
func DecodeAuthUser(r Record) (models.AuthUser, bool) {
	id, ok := getUUID(r, "id")
	if !ok {
		return models.AuthUser{}, false
	}

	phone, _ := getString(r, "phone")
	return models.AuthUser{
		ID:        id,
		Phone:     phone,
		Email:     optString(r, "email"),
		CreatedAt: optTime(r, "created_at"),
	}, true
}
