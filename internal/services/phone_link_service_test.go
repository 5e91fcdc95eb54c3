package services

import (
	"testing"

	"paisabook/internal/models"
	"paisabook/internal/testutil"
)

func TestCreateLink(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPhoneLinkService(db)

		user := testutil.CreateTestUser(t, db)

		link, err := svc.CreateLink(user.ID, "+919876543210", "My Jio number")
		testutil.AssertNoError(t, err)

		if link.ID == 0 {
			t.Fatal("expected non-zero link ID")
		}
		if link.PhoneNumber != "+919876543210" {
			t.Errorf("expected phone +919876543210, got %s", link.PhoneNumber)
		}
		if !link.IsActive {
			t.Error("expected link to be active")
		}
	})

	t.Run("duplicate_number", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPhoneLinkService(db)

		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)

		_, err := svc.CreateLink(user.ID, "+919876543210", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateLink(other.ID, "+919876543210", "")
		testutil.AssertAppError(t, err, "DUPLICATE_PHONE_LINK")
	})

	t.Run("duplicate_even_when_inactive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPhoneLinkService(db)

		user := testutil.CreateTestUser(t, db)

		link, err := svc.CreateLink(user.ID, "+919876543210", "")
		testutil.AssertNoError(t, err)
		_, err = svc.SetLinkActive(user.ID, link.ID, false)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateLink(user.ID, "+919876543210", "")
		testutil.AssertAppError(t, err, "DUPLICATE_PHONE_LINK")
	})
}

func TestGetUserLinks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPhoneLinkService(db)

	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	testutil.CreateTestPhoneLink(t, db, user.ID)
	testutil.CreateTestPhoneLink(t, db, user.ID)
	testutil.CreateTestPhoneLink(t, db, other.ID)

	links, err := svc.GetUserLinks(user.ID)
	testutil.AssertNoError(t, err)

	if len(links) != 2 {
		t.Errorf("expected 2 links, got %d", len(links))
	}
	for _, link := range links {
		if link.UserID != user.ID {
			t.Errorf("expected links for user %d, got one for %d", user.ID, link.UserID)
		}
	}
}

func TestGetLinkByPhone(t *testing.T) {
	t.Run("active_link", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPhoneLinkService(db)

		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestPhoneLinkWithNumber(t, db, user.ID, "+919812345678")

		link, err := svc.GetLinkByPhone("+919812345678")
		testutil.AssertNoError(t, err)

		if link.ID != created.ID {
			t.Errorf("expected link %d, got %d", created.ID, link.ID)
		}
	})

	t.Run("inactive_link_not_returned", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPhoneLinkService(db)

		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestPhoneLinkWithNumber(t, db, user.ID, "+919812345678")
		db.Model(created).Update("is_active", false)

		_, err := svc.GetLinkByPhone("+919812345678")
		testutil.AssertAppError(t, err, "PHONE_LINK_NOT_FOUND")
	})

	t.Run("unknown_number", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPhoneLinkService(db)

		_, err := svc.GetLinkByPhone("+910000000000")
		testutil.AssertAppError(t, err, "PHONE_LINK_NOT_FOUND")
	})
}

func TestSetLinkActive(t *testing.T) {
	t.Run("pause_and_resume", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPhoneLinkService(db)

		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestPhoneLinkWithNumber(t, db, user.ID, "+919812345678")

		link, err := svc.SetLinkActive(user.ID, created.ID, false)
		testutil.AssertNoError(t, err)
		if link.IsActive {
			t.Error("expected link to be paused")
		}

		_, err = svc.GetLinkByPhone("+919812345678")
		testutil.AssertAppError(t, err, "PHONE_LINK_NOT_FOUND")

		link, err = svc.SetLinkActive(user.ID, created.ID, true)
		testutil.AssertNoError(t, err)
		if !link.IsActive {
			t.Error("expected link to be active again")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPhoneLinkService(db)

		user := testutil.CreateTestUser(t, db)

		_, err := svc.SetLinkActive(user.ID, 99999, false)
		testutil.AssertAppError(t, err, "PHONE_LINK_NOT_FOUND")
	})
}

func TestDeleteLink(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPhoneLinkService(db)

		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestPhoneLink(t, db, user.ID)

		err := svc.DeleteLink(user.ID, created.ID)
		testutil.AssertNoError(t, err)

		links, err := svc.GetUserLinks(user.ID)
		testutil.AssertNoError(t, err)
		if len(links) != 0 {
			t.Errorf("expected no links after delete, got %d", len(links))
		}
	})

	t.Run("number_can_be_relinked_after_delete", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPhoneLinkService(db)

		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestPhoneLinkWithNumber(t, db, user.ID, "+919812345678")

		err := svc.DeleteLink(user.ID, created.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateLink(user.ID, "+919812345678", "again")
		testutil.AssertNoError(t, err)
	})

	t.Run("other_users_link", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPhoneLinkService(db)

		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestPhoneLink(t, db, other.ID)

		err := svc.DeleteLink(user.ID, created.ID)
		testutil.AssertAppError(t, err, "PHONE_LINK_NOT_FOUND")
	})
}

func TestRecordActivity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPhoneLinkService(db)

	user := testutil.CreateTestUser(t, db)
	created := testutil.CreateTestPhoneLinkWithNumber(t, db, user.ID, "+919812345678")

	err := svc.RecordActivity("+919812345678")
	testutil.AssertNoError(t, err)
	err = svc.RecordActivity("+919812345678")
	testutil.AssertNoError(t, err)

	var link models.PhoneLink
	testutil.AssertNoError(t, db.First(&link, created.ID).Error)

	if link.MessageCount != 2 {
		t.Errorf("expected message count 2, got %d", link.MessageCount)
	}
	if link.LastMessageAt == nil {
		t.Error("expected last message time to be set")
	}
}
