package db

import (
	"context"
	"errors"
	"time"

	"essayhub/models"
	"essayhub/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func (s *Store) CreateClassroom(ctx context.Context, classroom *models.Classroom) error {
	classroom.CreatedAt = time.Now()
	res, err := s.classrooms.InsertOne(ctx, classroom)
	if err != nil {
		return persistErr("create classroom", err)
	}
	classroom.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) GetClassroom(ctx context.Context, id string) (*models.Classroom, error) {
	oid, err := parseID("classroom", id)
	if err != nil {
		return nil, err
	}
	var classroom models.Classroom
	err = s.classrooms.FindOne(ctx, bson.M{"_id": oid}).Decode(&classroom)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound("classroom", id)
		}
		return nil, persistErr("get classroom", err)
	}
	return &classroom, nil
}

func (s *Store) ListClassroomsByTeacher(ctx context.Context, teacherID string) ([]models.Classroom, error) {
	oid, err := parseID("user", teacherID)
	if err != nil {
		return nil, err
	}
	cursor, err := s.classrooms.Find(ctx, bson.M{"teacherId": oid})
	if err != nil {
		return nil, persistErr("list classrooms", err)
	}
	defer cursor.Close(ctx)

	classrooms := []models.Classroom{}
	if err := cursor.All(ctx, &classrooms); err != nil {
		return nil, persistErr("decode classrooms", err)
	}
	return classrooms, nil
}

func (s *Store) ListClassroomsByStudent(ctx context.Context, studentID string) ([]models.Classroom, error) {
	oid, err := parseID("user", studentID)
	if err != nil {
		return nil, err
	}
	cursor, err := s.enrollments.Find(ctx, bson.M{"studentId": oid})
	if err != nil {
		return nil, persistErr("list enrollments", err)
	}
	defer cursor.Close(ctx)

	enrollments := []models.Enrollment{}
	if err := cursor.All(ctx, &enrollments); err != nil {
		return nil, persistErr("decode enrollments", err)
	}

	classrooms := []models.Classroom{}
	for _, enrollment := range enrollments {
		classroom, err := s.GetClassroom(ctx, enrollment.ClassroomID.Hex())
		if err != nil {
			continue
		}
		classrooms = append(classrooms, *classroom)
	}
	return classrooms, nil
}

// DeleteClassroom removes the classroom and its enrollments. Essays
// submitted through the classroom survive as the students' personal
// essays with the classroom link cleared.
func (s *Store) DeleteClassroom(ctx context.Context, id string) error {
	oid, err := parseID("classroom", id)
	if err != nil {
		return err
	}
	if _, err := s.enrollments.DeleteMany(ctx, bson.M{"classroomId": oid}); err != nil {
		return persistErr("delete enrollments", err)
	}
	if _, err := s.essays.UpdateMany(ctx, bson.M{"classroomId": oid}, bson.M{"$unset": bson.M{"classroomId": ""}}); err != nil {
		return persistErr("unlink classroom essays", err)
	}
	res, err := s.classrooms.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return persistErr("delete classroom", err)
	}
	if res.DeletedCount == 0 {
		return notFound("classroom", id)
	}
	return nil
}

func (s *Store) AddEnrollment(ctx context.Context, classroomID, studentID string) (*models.Enrollment, error) {
	classOID, err := parseID("classroom", classroomID)
	if err != nil {
		return nil, err
	}
	studentOID, err := parseID("user", studentID)
	if err != nil {
		return nil, err
	}
	enrollment := &models.Enrollment{
		ClassroomID: classOID,
		StudentID:   studentOID,
		CreatedAt:   time.Now(),
	}
	res, err := s.enrollments.InsertOne(ctx, enrollment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &services.ValidationError{Field: "student", Reason: "already enrolled in this classroom"}
		}
		return nil, persistErr("create enrollment", err)
	}
	enrollment.ID = res.InsertedID.(primitive.ObjectID)
	return enrollment, nil
}

func (s *Store) RemoveEnrollment(ctx context.Context, classroomID, studentID string) error {
	classOID, err := parseID("classroom", classroomID)
	if err != nil {
		return err
	}
	studentOID, err := parseID("user", studentID)
	if err != nil {
		return err
	}
	res, err := s.enrollments.DeleteOne(ctx, bson.M{"classroomId": classOID, "studentId": studentOID})
	if err != nil {
		return persistErr("delete enrollment", err)
	}
	if res.DeletedCount == 0 {
		return notFound("enrollment", classroomID+"/"+studentID)
	}
	return nil
}

func (s *Store) IsEnrolled(ctx context.Context, classroomID, studentID string) (bool, error) {
	classOID, err := parseID("classroom", classroomID)
	if err != nil {
		return false, err
	}
	studentOID, err := parseID("user", studentID)
	if err != nil {
		return false, err
	}
	err = s.enrollments.FindOne(ctx, bson.M{"classroomId": classOID, "studentId": studentOID}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, persistErr("check enrollment", err)
	}
	return true, nil
}

func (s *Store) ListStudents(ctx context.Context, classroomID string) ([]models.User, error) {
	classOID, err := parseID("classroom", classroomID)
	if err != nil {
		return nil, err
	}
	cursor, err := s.enrollments.Find(ctx, bson.M{"classroomId": classOID})
	if err != nil {
		return nil, persistErr("list enrollments", err)
	}
	defer cursor.Close(ctx)

	enrollments := []models.Enrollment{}
	if err := cursor.All(ctx, &enrollments); err != nil {
		return nil, persistErr("decode enrollments", err)
	}

	students := []models.User{}
	for _, enrollment := range enrollments {
		student, err := s.GetUser(ctx, enrollment.StudentID.Hex())
		if err != nil {
			continue
		}
		students = append(students, *student)
	}
	return students, nil
}

// ClassroomStats summarizes graded work in a classroom.
type ClassroomStats struct {
	EssayCount   int      `json:"essayCount"`
	GradedCount  int      `json:"gradedCount"`
	AverageScore *float64 `json:"averageScore"`
}

// GetClassroomStats averages finalScore over the classroom's graded
// essays.
func (s *Store) GetClassroomStats(ctx context.Context, classroomID string) (*ClassroomStats, error) {
	essays, err := s.ListEssaysByClassroom(ctx, classroomID)
	if err != nil {
		return nil, err
	}

	stats := &ClassroomStats{EssayCount: len(essays)}
	sum := 0.0
	for _, essay := range essays {
		if essay.FinalScore != nil {
			stats.GradedCount++
			sum += *essay.FinalScore
		}
	}
	if stats.GradedCount > 0 {
		avg := sum / float64(stats.GradedCount)
		stats.AverageScore = &avg
	}
	return stats, nil
}
