package account_test

import (
	"context"
	"converse/account"
	"converse/bizerror"
	"converse/persistence"
	"converse/session"
	"converse/testinfra"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("accounts", func() {
	var (
		testDatabase *testinfra.TestDatabase
	)
	BeforeEach(func() {
		testDatabase = testinfra.StartMysqlTestDatabase("converse")
		persistence.ActiveDataSourceManager = testDatabase.DS
		Expect(testDatabase.DS.GormDB(context.TODO()).AutoMigrate(&account.User{}).Error).To(BeNil())
	})
	AfterEach(func() {
		testinfra.StopMysqlTestDatabase(testDatabase)
	})

	Describe("CreateUser", func() {
		It("should persist the user with a hashed secret", func() {
			sec := &session.Session{Identity: session.Identity{ID: 1}, Context: context.TODO()}
			u, err := account.CreateUser(&account.UserCreation{Name: "ann", Secret: "123456", Nickname: "Ann"}, sec)
			Expect(err).To(BeNil())
			Expect(u.Name).To(Equal("ann"))

			user := account.User{}
			Expect(testDatabase.DS.GormDB(context.TODO()).Model(&account.User{}).
				Where(&account.User{ID: u.ID}).First(&user).Error).To(BeNil())
			Expect(user.Secret).To(Equal(account.HashSha256("123456")))
		})
	})

	Describe("SearchUsers", func() {
		It("should match by case insensitive prefix with a cap of 40", func() {
			sec := &session.Session{Identity: session.Identity{ID: 1}, Context: context.TODO()}
			db := testDatabase.DS.GormDB(context.TODO())
			Expect(db.Save(&account.User{ID: 1, Name: "ann", Secret: "x"}).Error).To(BeNil())
			Expect(db.Save(&account.User{ID: 2, Name: "Annabel", Secret: "x"}).Error).To(BeNil())
			Expect(db.Save(&account.User{ID: 3, Name: "bob", Secret: "x"}).Error).To(BeNil())

			users, err := account.SearchUsers(account.UserQuery{Name: "an"}, sec)
			Expect(err).To(BeNil())
			Expect(len(users)).To(Equal(2))

			users, err = account.SearchUsers(account.UserQuery{}, sec)
			Expect(err).To(BeNil())
			Expect(len(users)).To(Equal(3))
		})
	})

	Describe("FindUser", func() {
		It("should distinguish an absent user", func() {
			db := testDatabase.DS.GormDB(context.TODO())
			Expect(db.Save(&account.User{ID: 1, Name: "ann", Secret: "x"}).Error).To(BeNil())

			u, err := account.FindUser(1, db)
			Expect(err).To(BeNil())
			Expect(u.Name).To(Equal("ann"))

			_, err = account.FindUser(404, db)
			Expect(err).To(Equal(bizerror.ErrUserNotFound))
		})
	})

	Describe("QueryAccountNames", func() {
		It("should prefer nicknames", func() {
			db := testDatabase.DS.GormDB(context.TODO())
			Expect(db.Save(&account.User{ID: 1, Name: "ann", Nickname: "Ann", Secret: "x"}).Error).To(BeNil())
			Expect(db.Save(&account.User{ID: 2, Name: "bob", Secret: "x"}).Error).To(BeNil())

			names, err := account.QueryAccountNames([]types.ID{1, 2, 404})
			Expect(err).To(BeNil())
			Expect(names).To(Equal(map[types.ID]string{1: "Ann", 2: "bob"}))
		})
	})

	Describe("DisplayName", func() {
		It("should fall back to the login name", func() {
			Expect(account.User{Name: "test", Nickname: "Test"}.DisplayName()).To(Equal("Test"))
			Expect(account.User{Name: "test"}.DisplayName()).To(Equal("test"))
		})
	})
})
