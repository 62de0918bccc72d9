package tests

import (
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/studysync/studysync/apps/api/echo"
	"github.com/studysync/studysync/core"
	"github.com/studysync/studysync/core/schedule"
	"github.com/studysync/studysync/core/student"
	appfs "github.com/studysync/studysync/fs"
	emailsvc "github.com/studysync/studysync/services/email"
	logsvc "github.com/studysync/studysync/services/logger"
	dummydb "github.com/studysync/studysync/storage/database/dummy"
)

var (
	conf    *core.Config
	db      *dummydb.DB
	app     echoapi.Server
	stuRepo student.Repository
)

func TestMain(m *testing.M) {
	conf = core.NewConfig()
	conf.Debug = false
	conf.TestMode = true

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "TEST : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(false)

	// set up DB & repos
	var err error
	db, err = dummydb.Open()
	if err != nil {
		fmt.Printf("dummydb.Open(): %v", err)
		os.Exit(1)
	}
	stuRepo = dummydb.NewStudentRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	stuSvc := student.NewService(stuRepo)
	schedSvc := schedule.NewService(dummydb.NewScheduleRepository(db), mailSvc, conf, logger)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)

	core.ParseEmailTemplates(conf, logger, appfs.FS)

	// set up server
	app = echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			StudentSvc:  stuSvc,
			ScheduleSvc: schedSvc,
			Validate:    validate,
			Translator:  translator,
		},
	)

	os.Exit(m.Run())
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
